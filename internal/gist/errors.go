package gist

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v59/github"
)

var (
	// ErrNotFound means the gist does not exist or is not visible to the
	// authenticated user.
	ErrNotFound = errors.New("gist not found")

	// ErrPermissionDenied means the token is missing, invalid, or lacks
	// the gist scope.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidationRejected means the remote service rejected the payload
	// (filename or content restriction).
	ErrValidationRejected = errors.New("validation rejected by GitHub")

	// ErrRateLimited means the API rate limit was exhausted.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// mapAPIError translates a go-github error into the client's taxonomy. The
// original response error is kept in the chain for logging.
func mapAPIError(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	} else {
		var apiErr *github.ErrorResponse
		if errors.As(err, &apiErr) && apiErr.Response != nil {
			status = apiErr.Response.StatusCode
		}
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: authentication failed, check your GitHub token: %v", ErrPermissionDenied, err)
	case http.StatusForbidden:
		if strings.Contains(strings.ToLower(err.Error()), "rate limit") {
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", ErrValidationRejected, err)
	}

	return err
}

// isTransient reports whether a request is worth retrying: network errors
// and server-side failures, never client mistakes.
func isTransient(resp *github.Response, err error) bool {
	if err == nil {
		return false
	}

	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		return apiErr.Response.StatusCode >= http.StatusInternalServerError
	}

	if resp != nil {
		return resp.StatusCode >= http.StatusInternalServerError
	}

	// No HTTP response at all: connection-level failure
	return true
}
