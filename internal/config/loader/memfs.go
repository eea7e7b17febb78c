package loader

import (
	"io/fs"
	"time"
)

// MemFS is an in-memory FileSystem for tests and embedded defaults.
type MemFS struct {
	files map[string][]byte
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// AddFile stores content at path.
func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

// ReadFile returns the content stored at path.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

// Stat reports whether path exists.
func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if data, ok := m.files[path]; ok {
		return &memFileInfo{name: path, size: int64(len(data))}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
	size int64
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return f.size }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Time{} }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }
