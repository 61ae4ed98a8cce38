// Package upload stores user images on the local filesystem.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mini-shop/internal/domain"
	"mini-shop/internal/telemetry"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFiles bounds a multiple-file upload.
const MaxFiles = 10

// sniffLen is how much of a file is inspected to detect its content type.
const sniffLen = 3072

var (
	ErrUnsupportedType = errors.New("only jpg, jpeg, png, gif and bmp images are allowed")
	ErrTooLarge        = errors.New("file exceeds the size limit")
	ErrNoFile          = errors.New("no file uploaded")
	ErrTooManyFiles    = fmt.Errorf("at most %d files per upload", MaxFiles)
	ErrInvalidName     = errors.New("invalid file name")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// File describes a stored upload.
type File struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
	URL          string `json:"url"`
}

// Source is one incoming file.
type Source struct {
	Field        string
	OriginalName string
	Open         func() (io.ReadCloser, error)
}

type Storage struct {
	dir      string
	baseURL  string
	maxBytes int64
	logger   *zap.Logger
}

// NewStorage prepares dir and returns a Storage serving files under baseURL.
func NewStorage(dir, baseURL string, maxBytes int64, logger *zap.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Storage{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   telemetry.OrNop(logger).Named("upload"),
	}, nil
}

// Dir is the directory files are written to.
func (s *Storage) Dir() string { return s.dir }

// MaxBytes is the per-file size ceiling.
func (s *Storage) MaxBytes() int64 { return s.maxBytes }

// Save validates and writes one file.
func (s *Storage) Save(src Source) (*File, error) {
	ext := strings.ToLower(filepath.Ext(src.OriginalName))
	if !allowedExt[ext] {
		return nil, ErrUnsupportedType
	}
	r, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer r.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrNoFile
	}
	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrUnsupportedType
	}

	field := sanitizeField(src.Field)
	name := field + "-" + uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	written, err := io.Copy(out, io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxBytes+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	s.logger.Info("stored", zap.String("filename", name), zap.Int64("size", written), zap.String("mime", mt.String()))
	return &File{
		Filename:     name,
		OriginalName: src.OriginalName,
		Size:         written,
		MimeType:     mt.String(),
		URL:          s.URL(name),
	}, nil
}

// SaveMany stores up to MaxFiles files. Files already written are removed if a later one fails.
func (s *Storage) SaveMany(srcs []Source) ([]File, error) {
	if len(srcs) == 0 {
		return nil, ErrNoFile
	}
	if len(srcs) > MaxFiles {
		return nil, ErrTooManyFiles
	}
	saved := make([]File, 0, len(srcs))
	for _, src := range srcs {
		f, err := s.Save(src)
		if err != nil {
			for _, done := range saved {
				_ = os.Remove(filepath.Join(s.dir, done.Filename))
			}
			return nil, fmt.Errorf("%s: %w", src.OriginalName, err)
		}
		saved = append(saved, *f)
	}
	return saved, nil
}

// Delete removes a stored file by name. Names that escape the directory are rejected.
func (s *Storage) Delete(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	s.logger.Info("deleted", zap.String("filename", name))
	return nil
}

// URL is the public retrieval path of a stored file.
func (s *Storage) URL(name string) string {
	return s.baseURL + "/" + name
}

func sanitizeField(field string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range field {
		if r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
