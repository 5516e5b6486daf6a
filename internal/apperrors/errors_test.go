package apperrors

import (
	"errors"
	"testing"
)

func TestExternalServiceErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := ExternalServiceError("nominatim", cause)

	if !errors.Is(err, ErrExternalService) {
		t.Error("expected errors.Is(err, ErrExternalService) to hold")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the original cause to still be reachable via errors.Is")
	}
}

func TestInternalErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("nil pointer somewhere")
	err := InternalError("invariant violated", cause)

	if !errors.Is(err, ErrInternal) {
		t.Error("expected errors.Is(err, ErrInternal) to hold")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the original cause to still be reachable via errors.Is")
	}
}
