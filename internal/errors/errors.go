package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidPath       Kind = "invalid_path"
	SourceNotFound    Kind = "source_not_found"
	DestinationUnset  Kind = "destination_unset"
	DestinationNested Kind = "destination_nested"
	Traversal         Kind = "traversal_failed"
	CopyFailed        Kind = "copy_failed"
	ConfigFailure     Kind = "config_failure"
	Internal          Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

func New(kind Kind, op, path, msg string) error {
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  errors.New(msg),
	}
}

// CopyError reports the first failed entry of a copy run together with the
// number of files copied before the failure. A copy run never continues past
// its first failure.
type CopyError struct {
	Source string
	Target string
	Copied int
	Total  int
	Err    error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s -> %s (after %d/%d): %v", e.Source, e.Target, e.Copied, e.Total, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind of an error produced by this package. CopyError
// maps to CopyFailed; anything else maps to Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var copyErr *CopyError
	if errors.As(err, &copyErr) {
		return CopyFailed
	}
	return Internal
}

// UserMessage renders an error as text suitable for the status line.
func UserMessage(err error) string {
	var copyErr *CopyError
	if errors.As(err, &copyErr) {
		return fmt.Sprintf("Copy failed at %s after %d of %d files: %v", copyErr.Source, copyErr.Copied, copyErr.Total, copyErr.Err)
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidPath:
		return fmt.Sprintf("Invalid path: %v", appErr.Err)
	case SourceNotFound:
		return fmt.Sprintf("Source folder not found: %s", appErr.Path)
	case DestinationUnset:
		return "Destination folder is not set"
	case DestinationNested:
		return "Destination folder must not be the source folder or inside it"
	case Traversal:
		return fmt.Sprintf("Scanning failed: %s: %v", appErr.Path, appErr.Err)
	case ConfigFailure:
		return fmt.Sprintf("Configuration error: %v", appErr.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
