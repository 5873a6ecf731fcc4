package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

var (
	ErrUnsupportedMedia = errorutil.NewUnsupportedMedia("only PNG, JPG, and JPEG formats are allowed")
	ErrImageTooLarge    = errorutil.NewValidationError("image too large", nil)
)

// allowedImageTypes maps accepted MIME types to the stored file format.
var allowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpg":  "jpg",
	"image/jpeg": "jpeg",
}

// Upload is one binary received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object describes where an upload should be written.
type Object struct {
	Name   string // derived base name, no extension
	Format string // png, jpg or jpeg
}

// Key is the object's file name within its backend.
func (o Object) Key() string {
	return o.Name + "." + o.Format
}

// ImageStore writes image objects to external storage and returns a public URL.
type ImageStore interface {
	Put(ctx context.Context, obj Object, body io.Reader) (string, error)
}

// AttachmentService validates uploads and hands them to an ImageStore.
type AttachmentService struct {
	store    ImageStore
	maxBytes int64
	logger   *zap.Logger
}

// NewAttachmentService constructs the service. maxBytes <= 0 disables the size check.
func NewAttachmentService(store ImageStore, maxBytes int64, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{store: store, maxBytes: maxBytes, logger: logger}
}

// Attach stores the upload and returns its reference URL.
func (s *AttachmentService) Attach(ctx context.Context, upload Upload) (string, error) {
	format, err := imageFormat(upload.ContentType)
	if err != nil {
		return "", err
	}
	if s.maxBytes > 0 && upload.Size > s.maxBytes {
		return "", ErrImageTooLarge
	}

	obj := Object{Name: objectName(upload.FileName), Format: format}
	body := upload.Body
	if s.maxBytes > 0 {
		body = &limitedReader{r: io.LimitReader(upload.Body, s.maxBytes+1), max: s.maxBytes}
	}

	url, err := s.store.Put(ctx, obj, body)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) {
			return "", ErrImageTooLarge
		}
		s.logger.Error("image upload failed", zap.String("object", obj.Key()), zap.Error(err))
		return "", errorutil.NewStorageUnavailable(err)
	}

	s.logger.Debug("image stored", zap.String("object", obj.Key()), zap.String("url", url))
	return url, nil
}

func imageFormat(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrUnsupportedMedia
	}
	format, ok := allowedImageTypes[strings.ToLower(mediaType)]
	if !ok {
		return "", ErrUnsupportedMedia
	}
	return format, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// objectName derives a collision-resistant name from the client's file name.
func objectName(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "-"), "-")
	if len(base) > 64 {
		base = base[:64]
	}
	if base == "" || base == "." {
		base = "image"
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// limitedReader fails once more than max bytes have been read, so stores never persist
// a truncated image.
type limitedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, ErrImageTooLarge
	}
	return n, err
}
