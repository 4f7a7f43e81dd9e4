package audio

import (
	"fmt"
	"math"
)

// SoundID identifies a sound in the catalog
type SoundID int

// Sound identifiers. The numeric values are stable; they index the catalog table.
const (
	Bloop      SoundID = 0
	Bleep      SoundID = 1
	Explosion  SoundID = 2
	Mrrp       SoundID = 3
	ExplosionB SoundID = 4
	ShortSong  SoundID = 5

	// PickSound means "no selection". It is never materialized into an instance.
	PickSound SoundID = math.MaxInt32
)

// soundCount is the size of the dense catalog table
const soundCount = int(ShortSong) + 1

var soundNames = [soundCount]string{
	Bloop:      "Bloop",
	Bleep:      "Bleep",
	Explosion:  "Explosion",
	Mrrp:       "Mrrp",
	ExplosionB: "ExplosionB",
	ShortSong:  "ShortSong",
}

// Tag is the mixing category attached to every sound definition
type Tag int

const (
	General     Tag = 0
	Detonations Tag = 1
	Music       Tag = 2
)

const tagCount = int(Music) + 1

var tagNames = [tagCount]string{
	General:     "General",
	Detonations: "Detonations",
	Music:       "Music",
}

// List is a named, ordered group of sounds used to build instance sets
type List int

const (
	MenuList   List = 0
	SfxList    List = 1
	PlayerList List = 2
	MusicList  List = 3

	// PickList means "no selection"
	PickList List = math.MaxInt32
)

const listCount = int(MusicList) + 1

var listNames = [listCount]string{
	MenuList:   "Menu",
	SfxList:    "Sfx",
	PlayerList: "Player",
	MusicList:  "Music",
}

// Audio constants
const (
	SampleRate = 44100
)

// Valid reports whether id is one of the enumerated sounds (the sentinel is not)
func (id SoundID) Valid() bool {
	return id >= 0 && int(id) < soundCount
}

func (id SoundID) String() string {
	if id.Valid() {
		return soundNames[id]
	}
	if id == PickSound {
		return "_PickSound_"
	}
	return fmt.Sprintf("SoundID(%d)", int(id))
}

// MarshalText encodes the sound by name, so JSON map keys read "Bloop"
func (id SoundID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: sound %d", ErrUnresolved, int(id))
	}
	return []byte(soundNames[id]), nil
}

// UnmarshalText decodes a sound name (case-insensitive)
func (id *SoundID) UnmarshalText(text []byte) error {
	v, err := ParseSoundID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Valid reports whether t is one of the enumerated tags
func (t Tag) Valid() bool {
	return t >= 0 && int(t) < tagCount
}

func (t Tag) String() string {
	if t.Valid() {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// MarshalText encodes the tag by name
func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: tag %d", ErrUnresolved, int(t))
	}
	return []byte(tagNames[t]), nil
}

// UnmarshalText decodes a tag name (case-insensitive)
func (t *Tag) UnmarshalText(text []byte) error {
	v, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Valid reports whether l is one of the enumerated lists
func (l List) Valid() bool {
	return l >= 0 && int(l) < listCount
}

func (l List) String() string {
	if l.Valid() {
		return listNames[l]
	}
	if l == PickList {
		return "_PickCategory_"
	}
	return fmt.Sprintf("List(%d)", int(l))
}

// AllSounds returns every enumerated sound id in ordinal order
func AllSounds() []SoundID {
	ids := make([]SoundID, soundCount)
	for i := range ids {
		ids[i] = SoundID(i)
	}
	return ids
}

// AllTags returns every enumerated tag in ordinal order
func AllTags() []Tag {
	tags := make([]Tag, tagCount)
	for i := range tags {
		tags[i] = Tag(i)
	}
	return tags
}
