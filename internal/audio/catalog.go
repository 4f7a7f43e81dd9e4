package audio

import (
	"fmt"
	"slices"
)

// Definition describes one catalog entry
type Definition struct {
	ID        SoundID
	Resource  string // Opaque handle passed to Engine.LoadResource
	Polyphony int    // Maximum concurrent voices
	Tag       Tag
}

// Catalog is the immutable registry of sound definitions and sound lists.
// Build one at startup and pass it to whatever needs it.
type Catalog struct {
	defs    [soundCount]Definition
	present [soundCount]bool
	lists   [listCount][]SoundID
	hasList [listCount]bool
}

// NewCatalog validates and freezes the given definitions and lists
func NewCatalog(defs []Definition, lists map[List][]SoundID) (*Catalog, error) {
	c := &Catalog{}

	for _, def := range defs {
		if !def.ID.Valid() {
			return nil, fmt.Errorf("catalog: invalid sound id %s", def.ID)
		}
		if c.present[def.ID] {
			return nil, fmt.Errorf("catalog: sound %s defined twice", def.ID)
		}
		if def.Polyphony < 1 {
			return nil, fmt.Errorf("catalog: sound %s has polyphony %d, need at least 1", def.ID, def.Polyphony)
		}
		if !def.Tag.Valid() {
			return nil, fmt.Errorf("catalog: sound %s has invalid tag %s", def.ID, def.Tag)
		}
		if err := ValidateResourceHandle(def.Resource); err != nil {
			return nil, fmt.Errorf("catalog: sound %s: %w", def.ID, err)
		}
		c.defs[def.ID] = def
		c.present[def.ID] = true
	}

	for list, members := range lists {
		if !list.Valid() {
			return nil, fmt.Errorf("catalog: invalid list %s", list)
		}
		for _, id := range members {
			if !id.Valid() || !c.present[id] {
				return nil, fmt.Errorf("catalog: list %s references undefined sound %s", list, id)
			}
		}
		c.lists[list] = slices.Clone(members)
		c.hasList[list] = true
	}

	return c, nil
}

// DefaultCatalog returns the compiled-in catalog
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		[]Definition{
			// sound            resource location                               polyphony  tag
			{Bleep, "res://AudioServer/sfx/bleep.wav", 1, General},
			{Bloop, "res://AudioServer/sfx/bloop.wav", 1, General},
			{Explosion, "res://AudioServer/sfx/explosion.wav", 1, Detonations},
			{Mrrp, "res://AudioServer/sfx/mrrrrp.wav", 1, General},
			{ExplosionB, "res://AudioServer/sfx/explosionB.wav", 1, Detonations},
			{ShortSong, "res://AudioServer/music/shortMusic.mp3", 1, Music},
		},
		map[List][]SoundID{
			MenuList:   {Bleep, Bloop},
			SfxList:    {Explosion, ExplosionB},
			PlayerList: {Mrrp},
			MusicList:  {ShortSong},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the definition for id
func (c *Catalog) Lookup(id SoundID) (Definition, error) {
	if !id.Valid() || !c.present[id] {
		return Definition{}, fmt.Errorf("%w: sound %s is not in the catalog", ErrNotFound, id)
	}
	return c.defs[id], nil
}

// Members returns the ordered sounds of a list
func (c *Catalog) Members(list List) ([]SoundID, error) {
	if !list.Valid() || !c.hasList[list] {
		return nil, fmt.Errorf("%w: list %s has no entry in the catalog", ErrNotFound, list)
	}
	return slices.Clone(c.lists[list]), nil
}

// Lists returns every list that has an entry, in ordinal order
func (c *Catalog) Lists() []List {
	var lists []List
	for i, ok := range c.hasList {
		if ok {
			lists = append(lists, List(i))
		}
	}
	return lists
}

// IDs returns every defined sound in ordinal order
func (c *Catalog) IDs() []SoundID {
	var ids []SoundID
	for i, ok := range c.present {
		if ok {
			ids = append(ids, SoundID(i))
		}
	}
	return ids
}

// Tagged returns the defined sounds carrying tag, in ordinal order
func (c *Catalog) Tagged(tag Tag) []SoundID {
	var ids []SoundID
	for i, ok := range c.present {
		if ok && c.defs[i].Tag == tag {
			ids = append(ids, SoundID(i))
		}
	}
	return ids
}

// HasTag reports whether any defined sound carries tag
func (c *Catalog) HasTag(tag Tag) bool {
	for i, ok := range c.present {
		if ok && c.defs[i].Tag == tag {
			return true
		}
	}
	return false
}

// Tags returns the tags used by at least one definition, in ordinal order
func (c *Catalog) Tags() []Tag {
	var tags []Tag
	for _, t := range AllTags() {
		if c.HasTag(t) {
			tags = append(tags, t)
		}
	}
	return tags
}
