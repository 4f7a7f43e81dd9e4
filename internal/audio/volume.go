package audio

import (
	"maps"
	"math"
	"sync"

	log "github.com/sirupsen/logrus"
)

// DefaultVolume applies to any category or sound without a stored value
const DefaultVolume = 1.0

// Snapshot is the persisted volume state
type Snapshot struct {
	Master     float64
	Categories map[Tag]float64
	Sounds     map[SoundID]float64
}

// DefaultSnapshot returns master 1.0 and empty maps
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Master:     DefaultVolume,
		Categories: map[Tag]float64{},
		Sounds:     map[SoundID]float64{},
	}
}

// Clone returns a deep copy of s
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Master:     s.Master,
		Categories: maps.Clone(s.Categories),
		Sounds:     maps.Clone(s.Sounds),
	}
	if c.Categories == nil {
		c.Categories = map[Tag]float64{}
	}
	if c.Sounds == nil {
		c.Sounds = map[SoundID]float64{}
	}
	return c
}

// Codec reads and writes volume snapshots to durable storage
type Codec interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Store holds the process-wide volume preferences.
// Setters never validate ids or tags against the catalog.
type Store struct {
	mu         sync.RWMutex
	master     float64
	categories map[Tag]float64
	sounds     map[SoundID]float64
}

// NewStore creates a store with default volumes
func NewStore() *Store {
	s := &Store{}
	s.Restore(DefaultSnapshot())
	return s
}

// Master returns the master volume
func (s *Store) Master() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.master
}

// SetMaster sets the master volume
func (s *Store) SetMaster(volume float64) {
	s.mu.Lock()
	s.master = volume
	s.mu.Unlock()
}

// Category returns the volume of tag, or DefaultVolume when unset
func (s *Store) Category(tag Tag) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.categories[tag]; ok {
		return v
	}
	return DefaultVolume
}

// SetCategory sets the volume of tag, creating the key if needed
func (s *Store) SetCategory(tag Tag, volume float64) {
	s.mu.Lock()
	s.categories[tag] = volume
	s.mu.Unlock()
}

// Sound returns the individual volume of id, or DefaultVolume when unset
func (s *Store) Sound(id SoundID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.sounds[id]; ok {
		return v
	}
	return DefaultVolume
}

// SetSound sets the individual volume of id, creating the key if needed
func (s *Store) SetSound(id SoundID, volume float64) {
	s.mu.Lock()
	s.sounds[id] = volume
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Master:     s.master,
		Categories: maps.Clone(s.categories),
		Sounds:     maps.Clone(s.sounds),
	}
}

// Restore replaces all values at once
func (s *Store) Restore(snap Snapshot) {
	c := snap.Clone()
	s.mu.Lock()
	s.master = c.Master
	s.categories = c.Categories
	s.sounds = c.Sounds
	s.mu.Unlock()
}

// Load replaces the state with the codec's snapshot. On error the current
// state is left untouched and the error is returned as is.
func (s *Store) Load(codec Codec) error {
	snap, err := codec.Load()
	if err != nil {
		return err
	}
	s.Restore(snap)

	log.WithFields(log.Fields{
		"master":     snap.Master,
		"categories": len(snap.Categories),
		"sounds":     len(snap.Sounds),
	}).Info("Volume settings loaded")
	return nil
}

// Save writes the full current state through codec
func (s *Store) Save(codec Codec) error {
	return codec.Save(s.Snapshot())
}

// VolumeRange bounds volume scalars when clamping is enabled
type VolumeRange struct {
	Min float64
	Max float64
}

// UnitRange is the conventional [0, 1] linear range
var UnitRange = VolumeRange{Min: 0, Max: 1}

// Clamp limits v to the range
func (r VolumeRange) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// LinearToDb converts a linear amplitude to decibels. Zero maps to -Inf.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

// DbToLinear converts decibels back to a linear amplitude
func DbToLinear(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return math.Pow(10, db/20)
}
