package memofile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

const defaultMode fs.FileMode = 0o644

// File implements memo.FileAccess on top of a path on disk.
// Writes go to a temp file in the same directory which is then renamed over
// the target, so a reader never observes a half-written document.
type File struct {
	mu   sync.Mutex
	path string
}

var _ memo.FileAccess = (*File)(nil)

// New returns a File for path. The file is not touched until the first call.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Read returns the whole document.
func (f *File) Read(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", classify("read", f.path, err)
	}
	return string(data), nil
}

// Append adds fragment at the end of the document. The existing content is
// read and rewritten together with the fragment in one atomic replace.
// A document that does not end with a newline gets one first, so the
// fragment always starts on its own line.
func (f *File) Append(ctx context.Context, fragment string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return classify("append", f.path, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return f.replaceLocked(append(data, fragment...))
}

// WriteAll replaces the document with text.
func (f *File) WriteAll(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return f.replaceLocked([]byte(text))
}

// Create writes header to path when the file does not exist yet.
// It reports whether a new file was created.
func Create(path, header string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, classify("create", path, err)
	}
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultMode)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, classify("create", path, err)
	}
	if _, err := fh.WriteString(header); err != nil {
		_ = fh.Close()
		return false, classify("create", path, err)
	}
	if err := fh.Close(); err != nil {
		return false, classify("create", path, err)
	}
	return true, nil
}

func (f *File) replaceLocked(data []byte) error {
	mode := defaultMode
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
		// The rename below would succeed on a read-only file; check write access first.
		fh, err := os.OpenFile(f.path, os.O_WRONLY, 0)
		if err != nil {
			return classify("write", f.path, err)
		}
		_ = fh.Close()
	} else if errors.Is(err, fs.ErrPermission) {
		return classify("write", f.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return classify("write", f.path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return classify("write", f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return classify("sync", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return classify("write", f.path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return classify("chmod", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return classify("rename", f.path, err)
	}
	committed = true
	return nil
}

// classify maps an OS error to memo.ErrPermissionDenied or memo.ErrIOFailure.
func classify(op, path string, err error) error {
	kind := memo.ErrIOFailure
	if errors.Is(err, fs.ErrPermission) {
		kind = memo.ErrPermissionDenied
	}
	return fmt.Errorf("%w: %s %s: %w", kind, op, path, err)
}
