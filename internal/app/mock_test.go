package app

import (
	"io/fs"
	"sync"
	"time"
)

// fakeFS is an in-memory FileSystem for planner, executor and session tests.
type fakeFS struct {
	mu     sync.Mutex
	copied []string // copy targets in call order
	dirs   []string // MkdirAll targets

	files    []string         // file paths yielded by WalkDir, in order
	isDir    map[string]bool  // paths Stat reports as directories
	failCopy map[string]error // target -> error returned by CopyFile
	walkErr  error
	walkGate chan struct{} // when set, WalkDir blocks until closed
}

func (f *fakeFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	if f.walkGate != nil {
		<-f.walkGate
	}
	if f.walkErr != nil {
		return f.walkErr
	}
	for _, path := range f.files {
		if err := fn(path, fakeDirEntry{name: path}, nil); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFS) Stat(path string) (fs.FileInfo, error) {
	if f.isDir[path] {
		return fakeFileInfo{name: path, dir: true}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFS) Exists(path string) (bool, error) {
	return f.isDir[path], nil
}

func (f *fakeFS) MkdirAll(path string, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs = append(f.dirs, path)
	return nil
}

func (f *fakeFS) CopyFile(src, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failCopy[dst]; err != nil {
		return err
	}
	f.copied = append(f.copied, dst)
	return nil
}

func (f *fakeFS) copiedTargets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.copied...)
}

type fakeDirEntry struct {
	name string
	dir  bool
}

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return e.dir }
func (e fakeDirEntry) Type() fs.FileMode          { return 0 }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return fakeFileInfo{name: e.name, dir: e.dir}, nil }

type fakeFileInfo struct {
	name string
	dir  bool
}

func (i fakeFileInfo) Name() string       { return i.name }
func (i fakeFileInfo) Size() int64        { return 0 }
func (i fakeFileInfo) Mode() fs.FileMode  { return 0 }
func (i fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (i fakeFileInfo) IsDir() bool        { return i.dir }
func (i fakeFileInfo) Sys() any           { return nil }
