package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperr"
)

func TestCheckImage(t *testing.T) {
	ext, err := CheckImage(&multipart.FileHeader{Filename: "Photo.JPG", Size: 1024})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = CheckImage(&multipart.FileHeader{Filename: "doc.pdf", Size: 10})
	assert.Equal(t, 400, apperr.Status(err))

	_, err = CheckImage(&multipart.FileHeader{Filename: "big.png", Size: MaxImageSize + 1})
	assert.Equal(t, 400, apperr.Status(err))
}

func TestImageStorageDisabled(t *testing.T) {
	s := NewImageStorage(nil, "images")
	assert.False(t, s.Enabled())

	_, err := s.Upload(context.Background(), &multipart.FileHeader{Filename: "a.png", Size: 1})
	assert.Error(t, err)
}
