// Package blob stores listing images on local disk and hands back public URLs.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// UploadError is returned for any failed upload. Listing saves continue
// without the new image when they see it.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload %s: %v", e.Name, e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

const MaxImageBytes = 10 << 20

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type Store struct {
	Dir     string
	BaseURL string
	Now     func() time.Time
}

func New(dir, baseURL string) *Store {
	return &Store{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), Now: time.Now}
}

// Upload writes r to <Dir>/<ownerID>/<unix millis><ext> and returns its URL
// under /uploads.
func (s *Store) Upload(ctx context.Context, ownerID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", &UploadError{Name: filename, Err: fmt.Errorf("unsupported file type %q", ext)}
	}
	if ownerID == "" || strings.ContainsAny(ownerID, `/\.`) {
		return "", &UploadError{Name: filename, Err: fmt.Errorf("invalid owner %q", ownerID)}
	}
	if err := ctx.Err(); err != nil {
		return "", &UploadError{Name: filename, Err: err}
	}

	dir := filepath.Join(s.Dir, ownerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &UploadError{Name: filename, Err: err}
	}
	name := fmt.Sprintf("%d%s", s.Now().UnixMilli(), ext)
	full := filepath.Join(dir, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", &UploadError{Name: filename, Err: err}
	}
	n, err := io.Copy(f, io.LimitReader(r, MaxImageBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxImageBytes {
		err = fmt.Errorf("file exceeds %d bytes", MaxImageBytes)
	}
	if err != nil {
		_ = os.Remove(full)
		return "", &UploadError{Name: filename, Err: err}
	}
	return s.BaseURL + path.Join("/uploads", ownerID, name), nil
}
