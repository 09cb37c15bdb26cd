package api

import (
	"encoding/json/v2"
	"io"
	"net/http"

	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
)

// maxBodyBytes caps JSON request bodies. Uploads have their own limit.
const maxBodyBytes = 1 << 20

// decodeJSON reads and decodes a JSON request body into dest.
func decodeJSON(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return domainerrors.Validation("request body too large or unreadable").WithCause(err)
	}
	if len(data) == 0 {
		return domainerrors.Validation("request body is required")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return domainerrors.Validation("invalid JSON in request body").WithCause(err)
	}
	return nil
}
