package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound is returned by Store.Get for an absent id.
	ErrNotFound = errors.New("record not found")

	// ErrStorage marks a rejected Local Store transaction (quota, corruption, closed store).
	ErrStorage = errors.New("storage failure")

	// ErrValidation marks malformed input: bad import documents, missing ids, unknown enum values.
	ErrValidation = errors.New("validation failed")

	// ErrRemoteAuth is returned when the remote rejects the credential.
	ErrRemoteAuth = errors.New("remote authentication failed")

	// ErrRemoteConflict is returned when the content-hash precondition is stale.
	ErrRemoteConflict = errors.New("remote conflict")

	// ErrRemoteUnavailable covers network failures and server errors.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrNotConfigured is returned by remote operations when no credential or repository is set.
	ErrNotConfigured = errors.New("remote sync is not configured")
)

func errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// IsRemote reports whether err belongs to the remote failure family.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemoteAuth) ||
		errors.Is(err, ErrRemoteConflict) ||
		errors.Is(err, ErrRemoteUnavailable)
}
