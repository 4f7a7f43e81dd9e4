package settings

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sound-mixer-engine/internal/audio"
)

func sampleSnapshot() audio.Snapshot {
	return audio.Snapshot{
		Master:     0.8,
		Categories: map[audio.Tag]float64{audio.General: 0.5, audio.Music: 0.1},
		Sounds:     map[audio.SoundID]float64{audio.Mrrp: 0.9},
	}
}

func TestFileCodec_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "soundSettings.json")
	c := NewFileCodec(path)

	require.NoError(t, c.Save(sampleSnapshot()))
	got, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileCodec_MissingFile(t *testing.T) {
	c := NewFileCodec(filepath.Join(t.TempDir(), "soundSettings.json"))

	_, err := c.Load()
	var loadErr *audio.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileCodec_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soundSettings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"masterVolume":`), 0o644))

	_, err := NewFileCodec(path).Load()
	var loadErr *audio.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Source)
}

func TestFileCodec_StoreLoadKeepsStateOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soundSettings.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))

	store := audio.NewStore()
	store.SetMaster(0.4)
	require.Error(t, store.Load(NewFileCodec(path)))
	assert.Equal(t, 0.4, store.Master())
}

func TestSQLiteCodec_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soundSettings.db")
	c, err := NewSQLiteCodec(path)
	require.NoError(t, err)

	_, err = c.Load()
	require.ErrorIs(t, err, audio.ErrSnapshotMissing)

	require.NoError(t, c.Save(audio.DefaultSnapshot()))
	require.NoError(t, c.Save(sampleSnapshot()))
	require.NoError(t, c.Close())

	reopened, err := NewSQLiteCodec(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.LoadContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Codec_RoundTrip(t *testing.T) {
	objects := newFakeObjects()
	c := newS3Codec(objects, "mixer", "")

	_, err := c.Load()
	require.ErrorIs(t, err, audio.ErrSnapshotMissing)
	var loadErr *audio.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "s3://mixer/soundSettings.json", loadErr.Source)

	require.NoError(t, c.Save(sampleSnapshot()))
	assert.Contains(t, objects.objects, "mixer/soundSettings.json")

	got, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), got)
}

func TestS3Codec_PutFailure(t *testing.T) {
	objects := newFakeObjects()
	objects.putErr = errors.New("access denied")

	err := newS3Codec(objects, "mixer", "volumes.json").Save(sampleSnapshot())
	require.ErrorContains(t, err, "access denied")
}

func TestOpenCodec(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.SettingsPath = filepath.Join(dir, "soundSettings.json")
	c, err := OpenCodec(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileCodec{}, c)

	cfg.Backend = BackendSQLite
	cfg.SQLitePath = filepath.Join(dir, "soundSettings.db")
	c, err = OpenCodec(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteCodec{}, c)
	require.NoError(t, c.Close())

	cfg.Backend = "floppy"
	_, err = OpenCodec(context.Background(), cfg)
	require.Error(t, err)
}
