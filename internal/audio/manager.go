package audio

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	log "github.com/sirupsen/logrus"

	"sound-mixer-engine/internal/filesystem"
)

var _ Engine = (*Manager)(nil)

// Manager is the ebiten-backed playback engine. Voice completion is detected
// in Update, so handlers run on the game loop goroutine.
type Manager struct {
	context *audio.Context
	fs      *filesystem.Manager

	mu        sync.Mutex
	resources map[string]*pcmResource
	voices    map[*playerVoice]struct{}
	muted     bool
}

// NewManager creates a new audio manager reading assets through fs
func NewManager(fs *filesystem.Manager) *Manager {
	return &Manager{
		fs:        fs,
		resources: make(map[string]*pcmResource),
		voices:    make(map[*playerVoice]struct{}),
	}
}

// Init initializes the audio system
func (m *Manager) Init() error {
	// ebiten allows a single context per process
	if c := audio.CurrentContext(); c != nil {
		m.context = c
	} else {
		m.context = audio.NewContext(SampleRate)
	}
	if m.context.SampleRate() != SampleRate {
		return fmt.Errorf("audio context runs at %d Hz, need %d Hz", m.context.SampleRate(), SampleRate)
	}

	log.Println("Audio manager initialized")
	return nil
}

// CreateVoice creates a voice that can play res on up to polyphony players at once
func (m *Manager) CreateVoice(res Resource, polyphony int) (Voice, error) {
	pcm, ok := res.(*pcmResource)
	if !ok {
		return nil, fmt.Errorf("resource of type %T was not loaded by this manager", res)
	}
	if polyphony < 1 {
		return nil, fmt.Errorf("invalid polyphony: %d", polyphony)
	}
	if m.context == nil {
		return nil, fmt.Errorf("audio manager is not initialized")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v := newPlayerVoice(m.newPlayer, pcm, polyphony, m.release)
	v.setMuted(m.muted)
	m.voices[v] = struct{}{}
	return v, nil
}

func (m *Manager) newPlayer(pcm []byte) player {
	return m.context.NewPlayerFromBytes(pcm)
}

func (m *Manager) release(v *playerVoice) {
	m.mu.Lock()
	delete(m.voices, v)
	m.mu.Unlock()
}

func (m *Manager) liveVoices() []*playerVoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	voices := make([]*playerVoice, 0, len(m.voices))
	for v := range m.voices {
		voices = append(voices, v)
	}
	return voices
}

// Update updates the audio system (called each frame)
func (m *Manager) Update() error {
	for _, v := range m.liveVoices() {
		v.poll()
	}
	return nil
}

// SetMuted silences every voice without touching their volumes
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()

	for _, v := range m.liveVoices() {
		v.setMuted(muted)
	}

	if muted {
		log.Println("Audio muted")
	} else {
		log.Println("Audio unmuted")
	}
}

// IsMuted returns the current mute state
func (m *Manager) IsMuted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// GetMemoryUsage returns the decoded size of every cached resource
func (m *Manager) GetMemoryUsage() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var totalBytes int
	for _, res := range m.resources {
		totalBytes += len(res.pcm)
	}
	return totalBytes
}

// Cleanup properly closes all audio resources
func (m *Manager) Cleanup() {
	for _, v := range m.liveVoices() {
		if err := v.Close(); err != nil {
			log.WithError(err).Warn("Failed to close voice")
		}
	}

	m.mu.Lock()
	m.resources = make(map[string]*pcmResource)
	m.mu.Unlock()

	log.Println("Audio manager cleaned up")
}
