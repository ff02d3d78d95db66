// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/repository"
	"github.com/javajoker/campaign-wizard/internal/utils"
	"github.com/javajoker/campaign-wizard/internal/wizard"
)

type Kind int

const (
	KindUnhandled Kind = iota
	KindUnauthenticated
	KindBadRequest
	KindNotFound
	KindForbidden
	KindValidationFailed
	KindPersistenceFailed
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidationFailed:
		return "validation_failed"
	case KindPersistenceFailed:
		return "persistence_failed"
	default:
		return "unhandled"
	}
}

// Error is the service-level failure handed to transport. Key is an i18n
// message key; Details carries field errors for KindValidationFailed.
type Error struct {
	Kind    Kind
	Key     string
	Details []utils.ValidationError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Key)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, key string, err error) *Error {
	return &Error{Kind: kind, Key: key, Err: err}
}

// KindOf returns the kind of err, KindUnhandled for anything unclassified.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnhandled
}

// classify turns store and schema errors into service errors. notFoundKey is
// used when the store reports a missing row.
func classify(err error, notFoundKey string) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	var validationErr *wizard.ValidationFailedError
	switch {
	case errors.As(err, &validationErr):
		return &Error{
			Kind:    KindValidationFailed,
			Key:     i18n.KeyValidationInvalid,
			Details: validationErr.Fields,
			Err:     err,
		}
	case errors.Is(err, wizard.ErrInvalidStep):
		return newError(KindBadRequest, i18n.KeyWizardInvalidStep, err)
	case errors.Is(err, wizard.ErrMalformedPayload):
		return newError(KindBadRequest, i18n.KeyValidationInvalid, err)
	case errors.Is(err, repository.ErrNotFound):
		return newError(KindNotFound, notFoundKey, err)
	case errors.Is(err, repository.ErrConflict):
		return newError(KindPersistenceFailed, i18n.KeyConflict, err)
	default:
		return newError(KindUnhandled, i18n.KeyError, err)
	}
}
