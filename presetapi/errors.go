// SPDX-License-Identifier: EPL-2.0

package presetapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound   = errors.New("preset not found")
	ErrBadBaseURL = errors.New("invalid preset service URL")
)

// StatusError is a non-2xx answer of the preset service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("preset service: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("preset service: %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// Is makes a 404 StatusError match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}
