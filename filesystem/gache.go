package filesystem

import (
	"io"
	"os"
)

// GacheFs lets gache-backed stores, such as saved progress and the metadata cache, write through API().
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
