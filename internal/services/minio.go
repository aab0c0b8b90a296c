package services

import (
	"context"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"storefront_back_end/internal/apperr"
)

const (
	MaxImageSize      = 5 << 20
	PresignedURLValid = time.Hour
)

var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ImageStorage range les images dans un bucket MinIO.
type ImageStorage struct {
	client *minio.Client
	bucket string
}

func NewImageStorage(client *minio.Client, bucket string) *ImageStorage {
	return &ImageStorage{client: client, bucket: bucket}
}

func (s *ImageStorage) Enabled() bool {
	return s != nil && s.client != nil
}

// CheckImage valide l'extension et la taille d'un fichier envoyé.
func CheckImage(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", apperr.Validation("only png, jpg, jpeg and webp images are allowed")
	}
	if file.Size > MaxImageSize {
		return "", apperr.Validation("image must not exceed 5MB")
	}
	return ext, nil
}

// Upload envoie le fichier sous un nom uuid+extension et renvoie ce nom.
func (s *ImageStorage) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if !s.Enabled() {
		return "", apperr.Internal(nil, "image storage is not configured")
	}
	ext, err := CheckImage(file)
	if err != nil {
		return "", err
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := uuid.NewString() + ext
	_, err = s.client.PutObject(ctx, s.bucket, name, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}
	return name, nil
}

// PresignedURL génère une URL de lecture valable une heure.
func (s *ImageStorage) PresignedURL(ctx context.Context, name string) (string, error) {
	if !s.Enabled() {
		return "", apperr.Internal(nil, "image storage is not configured")
	}
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", apperr.NotFound("image %s not found", name)
		}
		return "", err
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, name, PresignedURLValid, make(url.Values))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *ImageStorage) Delete(ctx context.Context, name string) error {
	if !s.Enabled() {
		return apperr.Internal(nil, "image storage is not configured")
	}
	return s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
}
