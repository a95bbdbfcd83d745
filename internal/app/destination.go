package app

import (
	"path/filepath"
	"strings"
	"time"

	apperrors "procopy/internal/errors"
)

const timestampLayout = "20060102_150405"

// ResolveDestination computes the effective destination root. With
// appendTimestamp set, the last path segment gets a _YYYYMMDD_HHMMSS suffix
// inserted before its extension, producing a fresh folder per run:
//
//	/backups/proj     -> /backups/proj_20240102_030405
//	/backups/proj.zip -> /backups/proj_20240102_030405.zip
func ResolveDestination(destDir string, appendTimestamp bool, now time.Time) (string, error) {
	if destDir == "" {
		return "", apperrors.New(apperrors.InvalidPath, "resolve", "", "destination path is empty")
	}
	if !appendTimestamp {
		return destDir, nil
	}

	base := filepath.Base(destDir)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	stamped := name + "_" + now.Format(timestampLayout) + ext

	return filepath.Join(filepath.Dir(destDir), stamped), nil
}
