package appErrors_test

import (
	"errors"
	"testing"

	appErrors "github.com/unclebandit/dinerreach/internal/errors"
)

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")

	var pe *appErrors.PersistenceError
	if err := appErrors.NewPersistence(cause); !errors.As(err, &pe) || !errors.Is(err, cause) {
		t.Errorf("persistence error must wrap its cause: %v", err)
	}

	var fe *appErrors.FetchError
	if err := appErrors.NewFetch(cause); !errors.As(err, &fe) || !errors.Is(err, cause) {
		t.Errorf("fetch error must wrap its cause: %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := appErrors.NewValidation("offer_title", "message")
	want := "missing required fields: offer_title, message"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
