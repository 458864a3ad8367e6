package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := RemoteUnavailable("remote store unreachable", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if appErr.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("unexpected status %d", appErr.HTTPStatus)
	}
}

func TestCapacityConflict(t *testing.T) {
	appErr := CapacityConflict("2024-03-10")

	if appErr.Code != CodeCapacityConflict {
		t.Errorf("unexpected code %s", appErr.Code)
	}
	if appErr.HTTPStatus != http.StatusConflict {
		t.Errorf("unexpected status %d", appErr.HTTPStatus)
	}
	if appErr.Details["date"] != "2024-03-10" {
		t.Errorf("unexpected details %v", appErr.Details)
	}
}

func TestVersionExhausted(t *testing.T) {
	cause := errors.New("stale token")
	appErr := VersionExhausted(3, cause)

	if appErr.Code != CodeVersionExhausted {
		t.Errorf("unexpected code %s", appErr.Code)
	}
	if !errors.Is(appErr, cause) {
		t.Error("expected last conflict wrapped")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	if got := AsAppError(appErr); got != appErr {
		t.Error("expected the same AppError back")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain errors masked as internal, got %s", got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("expected the original error preserved as cause")
	}
}
