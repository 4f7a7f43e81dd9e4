package audio

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	log "github.com/sirupsen/logrus"
)

// pcmResource holds a decoded asset as 16-bit stereo PCM at SampleRate
type pcmResource struct {
	handle string
	pcm    []byte
}

// LoadResource reads and decodes the asset behind handle. Results are cached per handle.
func (m *Manager) LoadResource(handle string) (Resource, error) {
	if err := ValidateResourceHandle(handle); err != nil {
		return nil, err
	}

	m.mu.Lock()
	res, ok := m.resources[handle]
	m.mu.Unlock()
	if ok {
		return res, nil
	}

	filePath := ResourcePath(handle)
	data, err := m.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", handle, err)
	}

	pcm, err := decodePCM(filePath, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", handle, err)
	}

	res = &pcmResource{handle: handle, pcm: pcm}

	m.mu.Lock()
	m.resources[handle] = res
	m.mu.Unlock()

	log.WithFields(log.Fields{
		"resource": handle,
		"bytes":    len(pcm),
	}).Debug("Audio resource loaded")
	return res, nil
}

// decodePCM picks a decoder from the file extension and reads the whole stream
func decodePCM(name string, data []byte) ([]byte, error) {
	src := bytes.NewReader(data)

	var stream io.Reader
	var err error
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(SampleRate, src)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(SampleRate, src)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(SampleRate, src)
	default:
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}
	if err != nil {
		return nil, err
	}

	return io.ReadAll(stream)
}
