package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/saucebox/internal/domain"
)

var allowedExtensions = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".webp": ".webp",
	".gif":  ".gif",
}

// ImageStore keeps images as files in a single directory.
type ImageStore struct {
	dir string
	now func() time.Time
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create image directory")
	}
	return &ImageStore{dir: dir, now: time.Now}, nil
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes r under a new filename derived from name, the current time and
// the content hash, and returns that filename.
func (s *ImageStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	ext, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", domain.ValidationError{Field: "image", Reason: fmt.Sprintf("unsupported image type %q", filepath.Ext(name))}
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name())

	hasher := xxh3.New()
	_, err = io.Copy(io.MultiWriter(tmp, hasher), r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to write image")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%d_%016x%s", baseName(name), s.now().UnixMilli(), hasher.Sum64(), ext)
	err = os.Rename(tmp.Name(), filepath.Join(s.dir, filename))
	if err != nil {
		return "", errors.Wrap(err, "failed to store image")
	}

	return filename, nil
}

// Remove deletes a stored image. Names that escape the directory are rejected.
func (s *ImageStore) Remove(ctx context.Context, filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return fmt.Errorf("invalid image filename: %q", filename)
	}
	return os.Remove(filepath.Join(s.dir, filename))
}

// baseName keeps letters, digits, '-' and '_' of the original name.
func baseName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
		if b.Len() >= 64 {
			break
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
