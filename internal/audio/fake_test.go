package audio

import (
	"errors"
	"sync"
	"time"
)

// fakeEngine hands out fakeVoices and records them by resource handle
type fakeEngine struct {
	mu        sync.Mutex
	voices    map[string]*fakeVoice
	failLoad  map[string]bool
	failVoice map[string]bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		voices:    make(map[string]*fakeVoice),
		failLoad:  make(map[string]bool),
		failVoice: make(map[string]bool),
	}
}

type fakeResource struct {
	handle string
}

func (e *fakeEngine) LoadResource(handle string) (Resource, error) {
	if e.failLoad[handle] {
		return nil, errors.New("asset missing")
	}
	return &fakeResource{handle: handle}, nil
}

func (e *fakeEngine) CreateVoice(res Resource, polyphony int) (Voice, error) {
	r := res.(*fakeResource)
	if e.failVoice[r.handle] {
		return nil, errors.New("no free voices")
	}
	v := &fakeVoice{polyphony: polyphony, handlers: make(map[CallbackID]func())}
	e.mu.Lock()
	e.voices[r.handle] = v
	e.mu.Unlock()
	return v, nil
}

func (e *fakeEngine) voice(handle string) *fakeVoice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voices[handle]
}

type fakeVoice struct {
	mu          sync.Mutex
	polyphony   int
	playing     bool
	attenuation float64
	plays       []time.Duration
	stops       int
	closed      bool
	handlers    map[CallbackID]func()
	nextID      CallbackID
	subscribes  int
	removals    int
}

func (v *fakeVoice) Play(offset time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = true
	v.plays = append(v.plays, offset)
}

func (v *fakeVoice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
	v.stops++
}

func (v *fakeVoice) SetAttenuation(db float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attenuation = db
}

func (v *fakeVoice) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

func (v *fakeVoice) OnCompletion(fn func()) CallbackID {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	v.subscribes++
	v.handlers[v.nextID] = fn
	return v.nextID
}

func (v *fakeVoice) RemoveOnCompletion(id CallbackID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removals++
	delete(v.handlers, id)
}

func (v *fakeVoice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// finish simulates the playback engine reaching the end of the stream
func (v *fakeVoice) finish() {
	v.mu.Lock()
	v.playing = false
	handlers := make([]func(), 0, len(v.handlers))
	for _, fn := range v.handlers {
		handlers = append(handlers, fn)
	}
	v.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

func (v *fakeVoice) activeHandlers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.handlers)
}

func (v *fakeVoice) playCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.plays)
}

// fakeCodec serves a fixed snapshot or error
type fakeCodec struct {
	snap  Snapshot
	err   error
	saved []Snapshot
}

func (c *fakeCodec) Load() (Snapshot, error) {
	if c.err != nil {
		return Snapshot{}, c.err
	}
	return c.snap.Clone(), nil
}

func (c *fakeCodec) Save(s Snapshot) error {
	c.saved = append(c.saved, s.Clone())
	return c.err
}

// fixtureCatalog has two General sounds and one Detonations sound
func fixtureCatalog(t interface{ Fatalf(string, ...any) }) *Catalog {
	c, err := NewCatalog(
		[]Definition{
			{Bloop, "res://a.wav", 1, General},
			{Bleep, "res://b.wav", 2, General},
			{Explosion, "res://c.wav", 1, Detonations},
		},
		map[List][]SoundID{
			MenuList: {Bloop, Bleep},
			SfxList:  {Explosion},
		},
	)
	if err != nil {
		t.Fatalf("fixture catalog: %v", err)
	}
	return c
}
