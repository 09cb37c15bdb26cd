package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
	"github.com/daydeskapp/daydesk-server/internal/media/images"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

func setupUploadTest(t *testing.T) (*UploadService, *store.Store) {
	t.Helper()

	s := newTestStore(t)
	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	processor := images.NewProcessor(storage, testLogger())
	svc := NewUploadService(s, processor, storage, "http://localhost:8080", testLogger())
	return svc, s
}

func uploadTestUser(t *testing.T, s *store.Store) *domain.User {
	t.Helper()

	user := &domain.User{
		Record:      domain.Record{ID: "user-upload"},
		Email:       "dana@example.com",
		DisplayName: "Dana",
	}
	user.InitTimestamps()
	require.NoError(t, s.Users.Create(context.Background(), user.ID, user))
	return user
}

func testJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestUploadService_SetProfilePicture(t *testing.T) {
	svc, s := setupUploadTest(t)
	user := uploadTestUser(t, s)

	result, err := svc.SetProfilePicture(context.Background(), user.ID, testJPEG(t))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/upload/profile-picture/user-upload", result.PhotoURL)
	assert.NotEmpty(t, result.PhotoBlurHash)

	// The user record carries the new photo.
	updated, err := s.Users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, result.PhotoURL, updated.PhotoURL)
	assert.Equal(t, result.PhotoBlurHash, updated.PhotoBlurHash)

	// And the bytes are retrievable.
	data, err := svc.GetProfilePicture(user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestUploadService_SetProfilePicture_RejectsNonImage(t *testing.T) {
	svc, s := setupUploadTest(t)
	user := uploadTestUser(t, s)

	_, err := svc.SetProfilePicture(context.Background(), user.ID, []byte("definitely not an image"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUploadService_SetProfilePicture_UnknownUser(t *testing.T) {
	svc, _ := setupUploadTest(t)

	_, err := svc.SetProfilePicture(context.Background(), "user-missing", testJPEG(t))
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUploadService_GetProfilePicture_Missing(t *testing.T) {
	svc, _ := setupUploadTest(t)

	_, err := svc.GetProfilePicture("user-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
