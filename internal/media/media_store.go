package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	mediaerrors "hr-lite/internal/media/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxPhotoBytes is the largest photo Save accepts.
const MaxPhotoBytes = 2 * 1024 * 1024

const employeesDir = "employees"

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// StoredFile is what Save hands back: the public URL to persist and the
// handle to pass to Delete.
type StoredFile struct {
	URL    string
	Handle string
}

//go:generate mockgen -source=media_store.go -destination=mock/media_store_mock.go -package=mock
type Store interface {
	Save(ctx context.Context, content []byte, contentType string) (StoredFile, error)
	// Delete is best effort and never fails.
	Delete(ctx context.Context, handle string)
	HandleForURL(publicURL string) (string, bool)
}

type localStore struct {
	root      string
	urlPrefix string
	logger    *zap.Logger
}

// NewLocalStore stores files under root and publishes them under urlPrefix
// (for example "/media").
func NewLocalStore(root, urlPrefix string, logger ...*zap.Logger) Store {
	l := zap.L().Named("media.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("media.store")
	}
	return &localStore{
		root:      filepath.Clean(root),
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		logger:    l,
	}
}

func (s *localStore) Save(ctx context.Context, content []byte, contentType string) (StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return StoredFile{}, err
	}

	contentType = normalizeContentType(contentType)
	if _, ok := allowedContentTypes[contentType]; !ok {
		return StoredFile{}, mediaerrors.ErrUnsupportedMediaType.WithDetails(map[string]string{
			"content_type": contentType,
		})
	}
	if len(content) > MaxPhotoBytes {
		return StoredFile{}, mediaerrors.ErrPayloadTooLarge.WithDetails(map[string]int{
			"max_bytes": MaxPhotoBytes,
		})
	}

	dir := filepath.Join(s.root, employeesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + extensionFor(contentType)
	handle := filepath.Join(dir, name)

	if err := writeExclusive(handle, content); err != nil {
		return StoredFile{}, err
	}

	s.logger.Debug("photo stored",
		zap.String("handle", handle),
		zap.Int("bytes", len(content)),
		zap.String("content_type", contentType),
	)

	return StoredFile{
		URL:    path.Join(s.urlPrefix, employeesDir, name),
		Handle: handle,
	}, nil
}

func (s *localStore) Delete(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	if !s.contains(handle) {
		s.logger.Warn("refusing to delete file outside media root", zap.String("handle", handle))
		return
	}

	if err := os.Remove(handle); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("photo delete failed", zap.String("handle", handle), zap.Error(err))
		}
		return
	}
	s.logger.Debug("photo deleted", zap.String("handle", handle))
}

func (s *localStore) HandleForURL(publicURL string) (string, bool) {
	prefix := path.Join(s.urlPrefix, employeesDir) + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(publicURL, prefix)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return filepath.Join(s.root, employeesDir, name), true
}

func (s *localStore) contains(handle string) bool {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return false
	}
	target, err := filepath.Abs(handle)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

func writeExclusive(name string, content []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create photo file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write photo file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close photo file: %w", err)
	}
	return nil
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func extensionFor(contentType string) string {
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}
