package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
	"github.com/daydeskapp/daydesk-server/internal/media/images"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// UploadService processes profile picture uploads and serves them back.
type UploadService struct {
	store     *store.Store
	processor *images.Processor
	storage   *images.Storage
	publicURL string
	logger    *slog.Logger
}

// NewUploadService creates a new upload service. publicURL is the
// externally reachable base URL used to build photo links.
func NewUploadService(
	store *store.Store,
	processor *images.Processor,
	storage *images.Storage,
	publicURL string,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		store:     store,
		processor: processor,
		storage:   storage,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// ProfilePicture is the outcome of a successful upload.
type ProfilePicture struct {
	PhotoURL      string `json:"photoURL"`
	PhotoBlurHash string `json:"photoBlurHash,omitempty"`
}

// SetProfilePicture stores the image under the user's ID and updates
// the user record with the resulting URL and BlurHash placeholder.
func (s *UploadService) SetProfilePicture(ctx context.Context, userID string, data []byte) (*ProfilePicture, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	result, err := s.processor.Process(ctx, userID, data)
	if err != nil {
		if errors.Is(err, images.ErrUnsupportedFormat) {
			return nil, domainerrors.Validation("file must be an image")
		}
		return nil, fmt.Errorf("process image: %w", err)
	}

	user.PhotoURL = s.PhotoURL(userID)
	user.PhotoBlurHash = result.BlurHash
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("Profile picture updated", "user_id", userID)
	return &ProfilePicture{
		PhotoURL:      user.PhotoURL,
		PhotoBlurHash: user.PhotoBlurHash,
	}, nil
}

// GetProfilePicture returns the stored JPEG for a user.
func (s *UploadService) GetProfilePicture(userID string) ([]byte, error) {
	data, err := s.storage.Get(userID)
	if err != nil {
		return nil, domainerrors.NotFound("profile picture not found")
	}
	return data, nil
}

// PhotoURL builds the externally reachable URL for a user's picture.
func (s *UploadService) PhotoURL(userID string) string {
	return fmt.Sprintf("%s/api/upload/profile-picture/%s", s.publicURL, userID)
}
