package audio

import "time"

// Resource is a loaded audio asset. Its contents are engine specific.
type Resource interface{}

// CallbackID identifies a completion handler registered on a voice
type CallbackID uint64

// Engine loads assets and creates voices for them
type Engine interface {
	LoadResource(handle string) (Resource, error)
	CreateVoice(res Resource, polyphony int) (Voice, error)
}

// Voice is a playback handle for one resource.
// Completion handlers may be invoked from a goroutine other than the caller's.
type Voice interface {
	Play(offset time.Duration)
	Stop()
	SetAttenuation(db float64)
	IsPlaying() bool
	OnCompletion(fn func()) CallbackID
	RemoveOnCompletion(id CallbackID)
	Close() error
}
