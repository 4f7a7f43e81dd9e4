package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Manager resolves asset paths against mounted archives first, then the root directory
type Manager struct {
	rootDir  string
	archives []Archive
}

// Archive is a read-only asset bundle, such as an embedded fs.FS
type Archive interface {
	Open(filename string) (io.ReadCloser, error)
	Exists(filename string) bool
	Close() error
}

// NewManager creates a new filesystem manager
func NewManager(rootDir string) *Manager {
	return &Manager{
		rootDir:  rootDir,
		archives: make([]Archive, 0),
	}
}

// Init initializes the filesystem
func (m *Manager) Init() error {
	// Verify root directory exists
	if _, err := os.Stat(m.rootDir); os.IsNotExist(err) {
		return fmt.Errorf("root directory does not exist: %s", m.rootDir)
	}

	log.Printf("Filesystem initialized with root: %s", m.rootDir)
	return nil
}

// Mount adds an archive; archives are searched in mount order
func (m *Manager) Mount(a Archive) {
	m.archives = append(m.archives, a)
}

// MountFS mounts an fs.FS, typically an embed.FS of bundled assets
func (m *Manager) MountFS(fsys fs.FS) {
	m.Mount(&fsArchive{fsys: fsys})
}

// Open opens a file, checking archives first, then filesystem
func (m *Manager) Open(filename string) (io.ReadCloser, error) {
	name, err := cleanName(filename)
	if err != nil {
		return nil, err
	}

	for _, archive := range m.archives {
		if archive.Exists(name) {
			return archive.Open(name)
		}
	}

	file, err := os.Open(m.getFullPath(name))
	if err != nil {
		return nil, fmt.Errorf("file not found: %s: %w", filename, err)
	}

	return file, nil
}

// Exists checks if a file exists in archives or filesystem
func (m *Manager) Exists(filename string) bool {
	name, err := cleanName(filename)
	if err != nil {
		return false
	}

	for _, archive := range m.archives {
		if archive.Exists(name) {
			return true
		}
	}

	_, err = os.Stat(m.getFullPath(name))
	return err == nil
}

// ReadFile reads an entire file into memory
func (m *Manager) ReadFile(filename string) ([]byte, error) {
	file, err := m.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// cleanName normalizes separators and rejects paths that leave the root
func cleanName(filename string) (string, error) {
	name := strings.ReplaceAll(filename, "\\", "/")
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return "", fmt.Errorf("invalid asset path: %q", filename)
	}
	return name, nil
}

// getFullPath constructs the full filesystem path for a cleaned name
func (m *Manager) getFullPath(name string) string {
	return filepath.Join(m.rootDir, filepath.FromSlash(name))
}

// ListDirectory lists files in a directory
func (m *Manager) ListDirectory(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(m.getFullPath(filepath.ToSlash(dirPath)))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}

	return files, nil
}

// GetRootDir returns the root directory
func (m *Manager) GetRootDir() string {
	return m.rootDir
}

// Close closes all mounted archives
func (m *Manager) Close() error {
	var errs []error
	for _, archive := range m.archives {
		if err := archive.Close(); err != nil {
			log.WithError(err).Warn("Error closing archive")
			errs = append(errs, err)
		}
	}

	m.archives = nil
	log.Println("Filesystem manager closed")
	return errors.Join(errs...)
}

// fsArchive adapts an fs.FS to Archive
type fsArchive struct {
	fsys fs.FS
}

func (a *fsArchive) Open(filename string) (io.ReadCloser, error) {
	return a.fsys.Open(filename)
}

func (a *fsArchive) Exists(filename string) bool {
	info, err := fs.Stat(a.fsys, filename)
	return err == nil && !info.IsDir()
}

func (a *fsArchive) Close() error {
	return nil
}
