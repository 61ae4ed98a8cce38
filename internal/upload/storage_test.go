package upload

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mini-shop/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func source(field, name string, data []byte) Source {
	return Source{
		Field:        field,
		OriginalName: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func newStorage(t *testing.T, max int64) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), "/uploads/", max, nil)
	require.NoError(t, err)
	return s
}

func TestSaveImage(t *testing.T) {
	s := newStorage(t, 1024)
	f, err := s.Save(source("avatar", "me.PNG", pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(f.Filename, "avatar-"))
	assert.True(t, strings.HasSuffix(f.Filename, ".png"))
	assert.Equal(t, "/uploads/"+f.Filename, f.URL)
	assert.Equal(t, "image/png", f.MimeType)
	assert.Equal(t, int64(len(pngHeader)), f.Size)
	_, err = os.Stat(filepath.Join(s.Dir(), f.Filename))
	assert.NoError(t, err)
}

func TestSaveRejectsExtension(t *testing.T) {
	s := newStorage(t, 1024)
	_, err := s.Save(source("file", "notes.txt", pngHeader))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsNonImageContent(t *testing.T) {
	s := newStorage(t, 1024)
	_, err := s.Save(source("file", "fake.jpg", []byte("#!/bin/sh\necho hi\n")))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsOversize(t *testing.T) {
	s := newStorage(t, 32)
	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	_, err := s.Save(source("file", "big.png", data))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "partial file must be removed")
}

func TestSaveManyLimits(t *testing.T) {
	s := newStorage(t, 1024)
	_, err := s.SaveMany(nil)
	assert.ErrorIs(t, err, ErrNoFile)

	many := make([]Source, MaxFiles+1)
	for i := range many {
		many[i] = source("files", "a.png", pngHeader)
	}
	_, err = s.SaveMany(many)
	assert.ErrorIs(t, err, ErrTooManyFiles)

	files, err := s.SaveMany([]Source{source("files", "a.png", pngHeader), source("files", "b.png", pngHeader)})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestSaveManyRollsBackOnFailure(t *testing.T) {
	s := newStorage(t, 1024)
	_, err := s.SaveMany([]Source{source("files", "a.png", pngHeader), source("files", "b.exe", pngHeader)})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	s := newStorage(t, 1024)
	f, err := s.Save(source("file", "a.png", pngHeader))
	require.NoError(t, err)

	require.NoError(t, s.Delete(f.Filename))
	assert.True(t, errors.Is(s.Delete(f.Filename), domain.ErrNotFound))

	for _, bad := range []string{"", "../etc/passwd", "..", "a/b.png", `a\b.png`, ".hidden"} {
		assert.ErrorIs(t, s.Delete(bad), ErrInvalidName, bad)
	}
}

func TestSanitizeField(t *testing.T) {
	assert.Equal(t, "file", sanitizeField(""))
	assert.Equal(t, "cover_img", sanitizeField("cover_img"))
	assert.Equal(t, "file", sanitizeField("../"))
}
