// Package service implements the application logic behind the HTTP API.
// Each service validates its input, talks to the store, and returns
// domain values or typed errors; none of them know about HTTP.
package service

import "github.com/daydeskapp/daydesk-server/internal/validation"

// validate is the shared request validator. Field names in validation
// errors follow the JSON tags so they match what clients sent.
var validate = validation.New()
