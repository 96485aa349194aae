package components_test

import (
	"bytes"
	"io/fs"
	"time"
)

// staticFS is an fs.FS of template sources keyed by path, for examples that
// don't want to touch the disk.
type staticFS map[string]string

func (s staticFS) Open(name string) (fs.File, error) {
	val, ok := s[name]
	if !ok {
		return nil, &fs.PathError{
			Op:   "open",
			Path: name,
			Err:  fs.ErrNotExist,
		}
	}
	return &staticFile{
		Reader: bytes.NewReader([]byte(val)),
		name:   name,
	}, nil
}

func (s staticFS) ReadFile(name string) ([]byte, error) {
	val, ok := s[name]
	if !ok {
		return nil, &fs.PathError{
			Op:   "read",
			Path: name,
			Err:  fs.ErrNotExist,
		}
	}
	return []byte(val), nil
}

type staticFile struct {
	*bytes.Reader
	name string
}

func (f *staticFile) Stat() (fs.FileInfo, error) {
	return f, nil
}

func (*staticFile) Close() error {
	return nil
}

func (f *staticFile) Name() string {
	return f.name
}

func (f *staticFile) Size() int64 {
	return f.Reader.Size()
}

func (*staticFile) Mode() fs.FileMode {
	return 0400
}

func (*staticFile) ModTime() time.Time {
	return time.Time{}
}

func (*staticFile) IsDir() bool {
	return false
}

func (*staticFile) Sys() any {
	return nil
}
