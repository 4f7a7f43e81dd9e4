package audio

import (
	"sync"
	"sync/atomic"
	"time"
)

// Instance is a live playback handle bound to one catalog entry
type Instance struct {
	def   Definition
	voice Voice

	mu     sync.Mutex
	self   float64
	tag    float64
	master float64
	linear float64

	// looping is read by the completion handler, which may run on the audio thread
	looping atomic.Bool
	replay  CallbackID
}

// NewInstance binds def to voice with the given initial factors
func NewInstance(def Definition, voice Voice, self, tag, master float64) *Instance {
	s := &Instance{
		def:    def,
		voice:  voice,
		self:   self,
		tag:    tag,
		master: master,
	}
	s.mu.Lock()
	s.recompute()
	s.mu.Unlock()
	return s
}

// Definition returns the catalog entry this instance plays
func (s *Instance) Definition() Definition {
	return s.def
}

// BelongsTo reports whether the instance carries tag
func (s *Instance) BelongsTo(tag Tag) bool {
	return s.def.Tag == tag
}

// Play starts playback at offset. Looping is unchanged.
func (s *Instance) Play(offset time.Duration) {
	s.voice.Play(offset)
}

// Stop halts playback
func (s *Instance) Stop() {
	s.voice.Stop()
}

// Playing reports whether the voice is currently playing
func (s *Instance) Playing() bool {
	return s.voice.IsPlaying()
}

// Toggle stops a playing instance or plays a stopped one from the start
func (s *Instance) Toggle() {
	if s.voice.IsPlaying() {
		s.Stop()
	} else {
		s.Play(0)
	}
}

// Looping reports whether the instance replays on completion
func (s *Instance) Looping() bool {
	return s.looping.Load()
}

// ToggleLooping flips the loop flag
func (s *Instance) ToggleLooping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLooping(!s.looping.Load())
}

// SetLooping sets the loop flag; setting the current value does nothing
func (s *Instance) SetLooping(looping bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLooping(looping)
}

// setLooping subscribes on entry to looping and unsubscribes on exit. Caller holds mu.
func (s *Instance) setLooping(looping bool) {
	if looping == s.looping.Load() {
		return
	}
	if looping {
		s.replay = s.voice.OnCompletion(s.onCompletion)
		s.looping.Store(true)
		return
	}
	s.looping.Store(false)
	s.voice.RemoveOnCompletion(s.replay)
	s.replay = 0
}

func (s *Instance) onCompletion() {
	if s.looping.Load() {
		s.voice.Play(0)
	}
}

// SetSelfVolume sets the per-sound factor
func (s *Instance) SetSelfVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.self = volume
	s.recompute()
}

// SetTagVolume sets the category factor
func (s *Instance) SetTagVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tag = volume
	s.recompute()
}

// SetMasterVolume sets the master factor
func (s *Instance) SetMasterVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = volume
	s.recompute()
}

// recompute derives the effective volume and pushes it to the voice. Caller holds mu.
func (s *Instance) recompute() {
	s.linear = s.self * s.tag * s.master
	s.voice.SetAttenuation(LinearToDb(s.linear))
}

// SelfVolume returns the per-sound factor
func (s *Instance) SelfVolume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.self
}

// TagVolume returns the category factor
func (s *Instance) TagVolume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

// MasterVolume returns the master factor
func (s *Instance) MasterVolume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master
}

// Effective returns self × tag × master
func (s *Instance) Effective() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linear
}

// close stops playback and releases the voice
func (s *Instance) close() error {
	s.SetLooping(false)
	s.voice.Stop()
	return s.voice.Close()
}
