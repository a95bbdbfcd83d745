package app

import "io/fs"

// FileSystem is the filesystem surface the engine needs. Production code uses
// infra/fs.OSFS; tests substitute mocks.
type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
}

// ProgressFunc is called during copy execution to report progress. Calls for
// one run carry strictly increasing copied counts and always end with
// copied == total on success.
type ProgressFunc func(copied, total int)
