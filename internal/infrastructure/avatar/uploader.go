// Package avatar stores user avatar images in Cloudinary.
package avatar

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/contactbook/backend/internal/infrastructure/config"
)

// Uploader stores an image and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// CloudinaryUploader uploads avatars to a Cloudinary folder
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader creates an uploader from the avatar configuration.
// An empty CloudinaryURL falls back to the CLOUDINARY_URL environment variable.
func NewCloudinaryUploader(cfg config.AvatarConfig) (*CloudinaryUploader, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
	} else {
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}

	return &CloudinaryUploader{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores the image and returns its secure URL
func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       u.folder,
		PublicID:     filename,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}
	return res.SecureURL, nil
}

var _ Uploader = (*CloudinaryUploader)(nil)
