package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"net/http"
	"strings"
)

// ErrUnsupportedFormat is returned when an upload is not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// jpegQuality balances avatar fidelity against storage size.
const jpegQuality = 85

// Result describes a stored profile picture.
type Result struct {
	Hash     string // SHA256 of the stored file, for ETag/cache validation
	BlurHash string // Compact placeholder for clients to render while loading
}

// Processor validates and stores uploaded profile pictures.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Process validates an uploaded image and stores it as the user's avatar.
// Accepts any format with a registered decoder (JPEG, PNG, GIF, WebP) and
// normalizes to JPEG on disk so storage always holds {id}.jpg.
func (p *Processor) Process(ctx context.Context, userID string, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sniff before decoding so obvious non-images fail with a clear error
	// instead of a decoder internal one.
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrUnsupportedFormat, contentType)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	if err := p.storage.Save(userID, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("save profile picture: %w", err)
	}

	hash, err := p.storage.Hash(userID)
	if err != nil {
		return nil, fmt.Errorf("hash profile picture: %w", err)
	}

	blurHash, err := ComputeBlurHash(img)
	if err != nil {
		// The picture is already stored; a missing placeholder is cosmetic.
		p.logger.Warn("failed to compute blurhash",
			"user_id", userID,
			"error", err,
		)
		blurHash = ""
	}

	p.logger.Debug("stored profile picture",
		"user_id", userID,
		"format", format,
		"size", buf.Len(),
		"hash", hash[:8]+"...",
	)

	return &Result{
		Hash:     hash,
		BlurHash: blurHash,
	}, nil
}
