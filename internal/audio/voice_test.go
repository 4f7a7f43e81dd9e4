package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayer stands in for *audio.Player; tests end playback by clearing playing
type fakePlayer struct {
	playing  bool
	position time.Duration
	volume   float64
	plays    int
	rewinds  int
	closed   bool
}

func (p *fakePlayer) Play()           { p.playing = true; p.plays++ }
func (p *fakePlayer) Pause()          { p.playing = false }
func (p *fakePlayer) IsPlaying() bool { return p.playing }
func (p *fakePlayer) SetVolume(v float64) {
	if v < 0 || v > 1 {
		panic("volume must be in between 0 and 1")
	}
	p.volume = v
}
func (p *fakePlayer) Rewind() error {
	p.rewinds++
	p.position = 0
	return nil
}
func (p *fakePlayer) SetPosition(offset time.Duration) error {
	p.position = offset
	return nil
}
func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

type voiceFixture struct {
	voice    *playerVoice
	players  []*fakePlayer
	released []*playerVoice
}

func newVoiceFixture(polyphony int) *voiceFixture {
	f := &voiceFixture{}
	newPlayer := func([]byte) player {
		p := &fakePlayer{}
		f.players = append(f.players, p)
		return p
	}
	res := &pcmResource{handle: "res://a.wav", pcm: []byte{0, 0, 0, 0}}
	f.voice = newPlayerVoice(newPlayer, res, polyphony, func(v *playerVoice) {
		f.released = append(f.released, v)
	})
	return f
}

func TestPlayerVoice_NaturalEndFiresHandlersOnce(t *testing.T) {
	f := newVoiceFixture(1)
	fired := 0
	f.voice.OnCompletion(func() { fired++ })

	f.voice.Play(0)
	f.voice.poll()
	require.Zero(t, fired)

	f.players[0].playing = false
	f.voice.poll()
	f.voice.poll()
	assert.Equal(t, 1, fired)
}

func TestPlayerVoice_LoopReplaysThroughPoll(t *testing.T) {
	f := newVoiceFixture(1)
	inst := NewInstance(Definition{ID: Bloop, Resource: "res://a.wav", Polyphony: 1}, f.voice, 1, 1, 1)
	inst.SetLooping(true)

	inst.Play(0)
	for range 3 {
		f.players[0].playing = false
		f.voice.poll()
	}
	assert.Equal(t, 4, f.players[0].plays)
	assert.True(t, inst.Playing())
}

func TestPlayerVoice_StopSuppressesHandlers(t *testing.T) {
	f := newVoiceFixture(1)
	fired := 0
	f.voice.OnCompletion(func() { fired++ })

	f.voice.Play(time.Second)
	f.voice.Stop()
	f.voice.poll()

	assert.Zero(t, fired)
	assert.False(t, f.voice.IsPlaying())
	assert.Equal(t, 1, f.players[0].rewinds)
}

func TestPlayerVoice_RemovedHandlerDoesNotFire(t *testing.T) {
	f := newVoiceFixture(1)
	fired := 0
	id := f.voice.OnCompletion(func() { fired++ })
	f.voice.RemoveOnCompletion(id)

	f.voice.Play(0)
	f.players[0].playing = false
	f.voice.poll()
	assert.Zero(t, fired)
}

func TestPlayerVoice_StealsOldestAtPolyphonyLimit(t *testing.T) {
	f := newVoiceFixture(2)

	f.voice.Play(0)
	f.voice.Play(0)
	require.Len(t, f.players, 2)

	f.voice.Play(500 * time.Millisecond)
	require.Len(t, f.players, 2, "no player beyond the polyphony limit")
	assert.Equal(t, 2, f.players[0].plays)
	assert.Equal(t, 500*time.Millisecond, f.players[0].position)
	assert.Equal(t, 1, f.players[1].plays)

	// an idle player is preferred over stealing
	f.players[1].playing = false
	f.voice.Play(0)
	assert.Equal(t, 2, f.players[1].plays)
}

func TestPlayerVoice_GainIsLimitedToUnit(t *testing.T) {
	f := newVoiceFixture(1)
	f.voice.Play(0)

	f.voice.SetAttenuation(6)
	assert.Equal(t, 1.0, f.players[0].volume)

	f.voice.SetAttenuation(LinearToDb(0.5))
	assert.InDelta(t, 0.5, f.players[0].volume, 1e-9)

	f.voice.SetAttenuation(LinearToDb(0))
	assert.Equal(t, 0.0, f.players[0].volume)

	f.voice.SetAttenuation(6)
	f.voice.Play(0)
	assert.Equal(t, 1.0, f.players[0].volume)
}

func TestPlayerVoice_MuteKeepsGain(t *testing.T) {
	f := newVoiceFixture(1)
	f.voice.SetAttenuation(LinearToDb(0.4))
	f.voice.Play(0)

	f.voice.setMuted(true)
	assert.Equal(t, 0.0, f.players[0].volume)
	f.voice.Play(0)
	assert.Equal(t, 0.0, f.players[0].volume)

	f.voice.setMuted(false)
	assert.InDelta(t, 0.4, f.players[0].volume, 1e-9)
}

func TestPlayerVoice_Close(t *testing.T) {
	f := newVoiceFixture(1)
	fired := 0
	f.voice.OnCompletion(func() { fired++ })
	f.voice.Play(0)

	require.NoError(t, f.voice.Close())
	require.NoError(t, f.voice.Close())
	assert.True(t, f.players[0].closed)
	assert.Len(t, f.released, 1)

	f.voice.Play(0)
	assert.Len(t, f.players, 1)
	assert.False(t, f.voice.IsPlaying())
	f.voice.poll()
	assert.Zero(t, fired)
}
