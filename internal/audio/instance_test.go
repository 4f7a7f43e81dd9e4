package audio

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstance() (*Instance, *fakeVoice) {
	v := &fakeVoice{handlers: make(map[CallbackID]func())}
	def := Definition{ID: Bloop, Resource: "res://a.wav", Polyphony: 1, Tag: General}
	return NewInstance(def, v, 1, 1, 1), v
}

func TestInstance_EffectiveAfterAnySetterSequence(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 200; round++ {
		inst, voice := newTestInstance()
		self, tag, master := 1.0, 1.0, 1.0

		for step := 0; step < 10; step++ {
			v := r.Float64() * 2
			switch r.IntN(3) {
			case 0:
				inst.SetSelfVolume(v)
				self = v
			case 1:
				inst.SetTagVolume(v)
				tag = v
			case 2:
				inst.SetMasterVolume(v)
				master = v
			}

			want := self * tag * master
			require.Equal(t, want, inst.Effective())
			require.Equal(t, LinearToDb(want), voice.attenuation)
		}
	}
}

func TestInstance_SeededFactors(t *testing.T) {
	v := &fakeVoice{handlers: make(map[CallbackID]func())}
	inst := NewInstance(Definition{ID: Bleep, Tag: Music}, v, 0.5, 0.4, 0.5)

	assert.Equal(t, 0.5, inst.SelfVolume())
	assert.Equal(t, 0.4, inst.TagVolume())
	assert.Equal(t, 0.5, inst.MasterVolume())
	assert.Equal(t, 0.5*0.4*0.5, inst.Effective())
	assert.Equal(t, LinearToDb(0.1), v.attenuation)
	assert.True(t, inst.BelongsTo(Music))
	assert.False(t, inst.BelongsTo(General))
}

func TestInstance_ToggleTwiceRestoresState(t *testing.T) {
	inst, voice := newTestInstance()

	require.False(t, inst.Playing())
	inst.Toggle()
	require.True(t, inst.Playing())
	require.Equal(t, []time.Duration{0}, voice.plays)
	inst.Toggle()
	require.False(t, inst.Playing())

	inst.Play(2 * time.Second)
	inst.Toggle()
	inst.Toggle()
	require.True(t, inst.Playing())
}

func TestInstance_StopIsIdempotent(t *testing.T) {
	inst, _ := newTestInstance()

	inst.Stop()
	inst.Stop()
	require.False(t, inst.Playing())
}

func TestInstance_ToggleLoopingSubscribesOnce(t *testing.T) {
	inst, voice := newTestInstance()

	inst.ToggleLooping()
	require.True(t, inst.Looping())
	require.Equal(t, 1, voice.activeHandlers())

	inst.ToggleLooping()
	require.False(t, inst.Looping())
	require.Equal(t, 0, voice.activeHandlers())

	for i := 0; i < 5; i++ {
		inst.ToggleLooping()
	}
	require.True(t, inst.Looping())
	require.Equal(t, 1, voice.activeHandlers())
	require.Equal(t, 3, voice.subscribes)
	require.Equal(t, 2, voice.removals)
}

func TestInstance_SetLoopingIsIdempotent(t *testing.T) {
	inst, voice := newTestInstance()

	inst.SetLooping(true)
	inst.SetLooping(true)
	require.Equal(t, 1, voice.subscribes)
	require.Equal(t, 1, voice.activeHandlers())

	inst.SetLooping(false)
	inst.SetLooping(false)
	require.Equal(t, 1, voice.removals)
	require.Equal(t, 0, voice.activeHandlers())
}

func TestInstance_CompletionReplaysOnlyWhileLooping(t *testing.T) {
	inst, voice := newTestInstance()

	inst.Play(time.Second)
	voice.finish()
	require.Equal(t, 1, voice.playCount())
	require.False(t, inst.Playing())

	inst.ToggleLooping()
	inst.Play(0)
	voice.finish()
	require.Equal(t, 3, voice.playCount())
	require.True(t, inst.Playing())
	require.Equal(t, time.Duration(0), voice.plays[2])

	inst.ToggleLooping()
	voice.finish()
	require.Equal(t, 3, voice.playCount())
}

func TestInstance_PlayKeepsLooping(t *testing.T) {
	inst, _ := newTestInstance()

	inst.ToggleLooping()
	inst.Play(0)
	inst.Stop()
	inst.Play(time.Second)
	require.True(t, inst.Looping())
}

func TestInstance_ConcurrentCompletionAndToggle(t *testing.T) {
	inst, voice := newTestInstance()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			voice.finish()
		}
	}()
	for i := 0; i < 1000; i++ {
		inst.ToggleLooping()
	}
	<-done

	// 1000 toggles end where they started
	require.False(t, inst.Looping())
	require.Equal(t, 0, voice.activeHandlers())
}
