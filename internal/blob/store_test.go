package blob

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixed() time.Time { return time.UnixMilli(1700000000123) }

func TestUploadWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "http://localhost:8081/")
	s.Now = fixed

	url, err := s.Upload(context.Background(), "seller-1", "Photo.JPG", strings.NewReader("img"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8081/uploads/seller-1/1700000000123.jpg", url)

	b, err := os.ReadFile(filepath.Join(dir, "seller-1", "1700000000123.jpg"))
	require.NoError(t, err)
	require.Equal(t, "img", string(b))
}

func TestUploadRejects(t *testing.T) {
	s := New(t.TempDir(), "")
	s.Now = fixed

	_, err := s.Upload(context.Background(), "seller-1", "notes.txt", strings.NewReader("x"))
	var ue *UploadError
	require.ErrorAs(t, err, &ue)

	_, err = s.Upload(context.Background(), "../etc", "a.png", strings.NewReader("x"))
	require.ErrorAs(t, err, &ue)

	big := bytes.NewReader(make([]byte, MaxImageBytes+1))
	_, err = s.Upload(context.Background(), "seller-1", "a.png", big)
	require.ErrorAs(t, err, &ue)
	_, statErr := os.Stat(filepath.Join(s.Dir, "seller-1", "1700000000123.png"))
	require.True(t, os.IsNotExist(statErr))
}

func TestUploadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(t.TempDir(), "").Upload(ctx, "seller-1", "a.png", strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)
}
