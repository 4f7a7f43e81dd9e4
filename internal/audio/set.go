package audio

import (
	"errors"
	"fmt"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"
)

// Set is the collection of instances built for one requester, such as a screen.
// Volume changes made through the set are written back to the Store.
type Set struct {
	catalog *Catalog
	store   *Store
	logger  log.FieldLogger
	limits  *VolumeRange

	sounds map[SoundID]*Instance
	order  []SoundID
}

// SetOption configures a Set
type SetOption func(*Set)

// WithLogger routes reports to logger instead of the standard logrus logger
func WithLogger(logger log.FieldLogger) SetOption {
	return func(s *Set) {
		s.logger = logger
	}
}

// WithVolumeRange clamps every volume passed to the set before it reaches
// instances or the Store. Without it volumes are used as given.
func WithVolumeRange(r VolumeRange) SetOption {
	return func(s *Set) {
		s.limits = &r
	}
}

// NewSet builds instances for ids. Duplicates, the sentinel, ids missing from
// the catalog and ids whose voice cannot be created are reported and skipped.
func NewSet(catalog *Catalog, store *Store, engine Engine, ids []SoundID, opts ...SetOption) *Set {
	s := &Set{
		catalog: catalog,
		store:   store,
		logger:  log.StandardLogger(),
		sounds:  make(map[SoundID]*Instance),
	}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[SoundID]bool, len(ids))
	for _, id := range ids {
		if id == PickSound {
			continue
		}
		if seen[id] {
			s.report(fmt.Errorf("%w: sound %s", ErrDuplicate, id), log.Fields{"sound": id.String()}, "Skipping sound while building set")
			continue
		}
		seen[id] = true

		def, err := catalog.Lookup(id)
		if err != nil {
			s.report(err, log.Fields{"sound": id.String()}, "Skipping sound while building set")
			continue
		}
		if err := s.add(def, engine); err != nil {
			s.report(err, log.Fields{"sound": id.String()}, "Skipping sound while building set")
		}
	}

	s.logger.WithField("sounds", len(s.order)).Debug("Sound set built")
	return s
}

// NewSetFromLists builds a set from the members of each list, in list order
func NewSetFromLists(catalog *Catalog, store *Store, engine Engine, lists []List, opts ...SetOption) *Set {
	var ids []SoundID
	var misses []error
	for _, list := range lists {
		if list == PickList {
			continue
		}
		members, err := catalog.Members(list)
		if err != nil {
			misses = append(misses, err)
			continue
		}
		ids = append(ids, members...)
	}

	s := NewSet(catalog, store, engine, ids, opts...)
	for _, err := range misses {
		s.report(err, nil, "Skipping list while building set")
	}
	return s
}

// add creates the instance for def, seeded from the store
func (s *Set) add(def Definition, engine Engine) error {
	res, err := engine.LoadResource(def.Resource)
	if err != nil {
		return fmt.Errorf("load resource %s: %w", def.Resource, err)
	}
	voice, err := engine.CreateVoice(res, def.Polyphony)
	if err != nil {
		return fmt.Errorf("create voice for %s: %w", def.ID, err)
	}

	s.sounds[def.ID] = NewInstance(def, voice,
		s.store.Sound(def.ID),
		s.store.Category(def.Tag),
		s.store.Master(),
	)
	s.order = append(s.order, def.ID)
	return nil
}

func (s *Set) report(err error, fields log.Fields, msg string) {
	entry := s.logger.WithError(err)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Warn(msg)
}

func (s *Set) lookup(id SoundID, action string) (*Instance, bool) {
	inst, ok := s.sounds[id]
	if !ok {
		s.report(fmt.Errorf("%w: sound %s was not loaded or does not exist", ErrUnknownTarget, id),
			log.Fields{"sound": id.String(), "action": action}, "Ignoring sound operation")
	}
	return inst, ok
}

func (s *Set) clamp(volume float64) float64 {
	if s.limits == nil {
		return volume
	}
	return s.limits.Clamp(volume)
}

// Get returns the instance for id
func (s *Set) Get(id SoundID) (*Instance, bool) {
	inst, ok := s.sounds[id]
	return inst, ok
}

// IDs returns the member ids in build order
func (s *Set) IDs() []SoundID {
	return slices.Clone(s.order)
}

// Len returns the number of members
func (s *Set) Len() int {
	return len(s.order)
}

// PlayAll starts every member from the beginning
func (s *Set) PlayAll() {
	for _, id := range s.order {
		s.sounds[id].Play(0)
	}
}

// StopAll stops every member
func (s *Set) StopAll() {
	for _, id := range s.order {
		s.sounds[id].Stop()
	}
}

// Toggle plays or stops id
func (s *Set) Toggle(id SoundID) {
	if inst, ok := s.lookup(id, "toggle"); ok {
		inst.Toggle()
	}
}

// ToggleLooping flips looping on id
func (s *Set) ToggleLooping(id SoundID) {
	if inst, ok := s.lookup(id, "toggle looping"); ok {
		inst.ToggleLooping()
	}
}

// Stop stops id
func (s *Set) Stop(id SoundID) {
	if inst, ok := s.lookup(id, "stop"); ok {
		inst.Stop()
	}
}

// Play plays id from offset
func (s *Set) Play(id SoundID, offset time.Duration) {
	if inst, ok := s.lookup(id, "play"); ok {
		inst.Play(offset)
	}
}

// SetMasterVolume applies volume to every member and stores it
func (s *Set) SetMasterVolume(volume float64) {
	volume = s.clamp(volume)
	for _, id := range s.order {
		s.sounds[id].SetMasterVolume(volume)
	}
	s.store.SetMaster(volume)
}

// SetVolume applies volume to one member and stores it under id
func (s *Set) SetVolume(volume float64, id SoundID) {
	inst, ok := s.lookup(id, "set volume")
	if !ok {
		return
	}
	volume = s.clamp(volume)
	inst.SetSelfVolume(volume)
	s.store.SetSound(id, volume)
}

// SetCategoryVolume applies volume to the members tagged tag and stores it.
// Members with other tags are untouched.
func (s *Set) SetCategoryVolume(volume float64, tag Tag) {
	if !s.catalog.HasTag(tag) {
		s.report(fmt.Errorf("%w: category %s does not exist", ErrUnknownTarget, tag),
			log.Fields{"tag": tag.String()}, "Ignoring category volume")
		return
	}
	volume = s.clamp(volume)
	for _, id := range s.order {
		if inst := s.sounds[id]; inst.BelongsTo(tag) {
			inst.SetTagVolume(volume)
		}
	}
	s.store.SetCategory(tag, volume)
}

// NameToID resolves a sound name, ignoring case. Unknown names are reported
// and yield PickSound.
func (s *Set) NameToID(name string) SoundID {
	id, err := ParseSoundID(name)
	if err != nil {
		s.report(err, log.Fields{"name": name}, "Could not resolve sound name")
		return PickSound
	}
	return id
}

// Close stops every member and releases its voice
func (s *Set) Close() error {
	var errs []error
	for _, id := range s.order {
		if err := s.sounds[id].close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", id, err))
		}
	}
	s.sounds = make(map[SoundID]*Instance)
	s.order = nil
	return errors.Join(errs...)
}
