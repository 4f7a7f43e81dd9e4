package audio

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	log "github.com/sirupsen/logrus"
)

// player is the part of *audio.Player a voice drives
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	Rewind() error
	SetPosition(offset time.Duration) error
	SetVolume(volume float64)
	Close() error
}

var _ player = (*audio.Player)(nil)

// playerVoice plays one resource on up to polyphony players
type playerVoice struct {
	newPlayer func(pcm []byte) player
	res       *pcmResource
	polyphony int
	onClose   func(*playerVoice)

	mu       sync.Mutex
	players  []player
	next     int
	gain     float64
	muted    bool
	playing  bool // state seen by the last poll
	stopped  bool // Stop was called since the last Play
	closed   bool
	handlers map[CallbackID]func()
	nextID   CallbackID
}

func newPlayerVoice(newPlayer func([]byte) player, res *pcmResource, polyphony int, onClose func(*playerVoice)) *playerVoice {
	return &playerVoice{
		newPlayer: newPlayer,
		res:       res,
		polyphony: polyphony,
		onClose:   onClose,
		gain:      1,
		handlers:  make(map[CallbackID]func()),
	}
}

// pick returns an idle player, a new one while under the polyphony limit,
// or the oldest started one. Caller holds mu.
func (v *playerVoice) pick() player {
	for _, p := range v.players {
		if !p.IsPlaying() {
			return p
		}
	}
	if len(v.players) < v.polyphony {
		p := v.newPlayer(v.res.pcm)
		v.players = append(v.players, p)
		return p
	}
	p := v.players[v.next%len(v.players)]
	v.next++
	return p
}

// volume is the gain handed to players. Players accept [0, 1] only, so
// amplification above unity is cut at 1.
func (v *playerVoice) volume() float64 {
	if v.muted || math.IsNaN(v.gain) {
		return 0
	}
	return UnitRange.Clamp(v.gain)
}

func (v *playerVoice) Play(offset time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	p := v.pick()
	if err := p.SetPosition(offset); err != nil {
		log.WithFields(log.Fields{
			"resource": v.res.handle,
			"offset":   offset,
			"error":    err,
		}).Warn("Failed to seek audio player")
	}
	p.SetVolume(v.volume())
	p.Play()

	v.stopped = false
	v.playing = true
}

func (v *playerVoice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, p := range v.players {
		p.Pause()
		if err := p.Rewind(); err != nil {
			log.WithError(err).Warn("Failed to rewind audio player")
		}
	}
	v.stopped = true
	v.playing = false
}

func (v *playerVoice) SetAttenuation(db float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.gain = DbToLinear(db)
	for _, p := range v.players {
		p.SetVolume(v.volume())
	}
}

func (v *playerVoice) setMuted(muted bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.muted = muted
	for _, p := range v.players {
		p.SetVolume(v.volume())
	}
}

func (v *playerVoice) IsPlaying() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.anyPlaying()
}

func (v *playerVoice) anyPlaying() bool {
	for _, p := range v.players {
		if p.IsPlaying() {
			return true
		}
	}
	return false
}

func (v *playerVoice) OnCompletion(fn func()) CallbackID {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	v.handlers[v.nextID] = fn
	return v.nextID
}

func (v *playerVoice) RemoveOnCompletion(id CallbackID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.handlers, id)
}

// poll fires completion handlers when playback ran out on its own since the last poll
func (v *playerVoice) poll() {
	v.mu.Lock()
	now := v.anyPlaying()
	finished := v.playing && !now && !v.stopped
	v.playing = now

	var handlers []func()
	if finished {
		handlers = make([]func(), 0, len(v.handlers))
		for _, fn := range v.handlers {
			handlers = append(handlers, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

func (v *playerVoice) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true

	var errs []error
	for _, p := range v.players {
		p.Pause()
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	v.players = nil
	v.handlers = make(map[CallbackID]func())
	v.mu.Unlock()

	if v.onClose != nil {
		v.onClose(v)
	}
	return errors.Join(errs...)
}
