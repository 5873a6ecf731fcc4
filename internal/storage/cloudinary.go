package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/spec-kit/employee-directory/internal/config"
)

type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryStore uploads images to Cloudinary and returns their secure URL.
type CloudinaryStore struct {
	uploader cloudinaryUploader
	folder   string
}

// NewCloudinaryStore builds a store from credentials.
func NewCloudinaryStore(cfg config.CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStore{uploader: &cld.Upload, folder: cfg.Folder}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, obj Object, body io.Reader) (string, error) {
	resp, err := s.uploader.Upload(ctx, body, uploader.UploadParams{
		PublicID: obj.Name,
		Folder:   s.folder,
		Format:   obj.Format,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp == nil {
		return "", errors.New("cloudinary upload: empty response")
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary upload: no url returned")
	}
	return resp.SecureURL, nil
}
