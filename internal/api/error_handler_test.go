package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
)

func newTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestResolveError_DomainErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"page not found", domain.ErrPageNotFound, http.StatusNotFound, "page not found"},
		{"post not found", domain.ErrPostNotFound, http.StatusNotFound, "post not found"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"no pending request", domain.ErrNoPendingRequest, http.StatusNotFound, "no pending follow request"},
		{"already follower", domain.ErrAlreadyFollower, http.StatusConflict, "user already follows you"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"incorrect unblock date", domain.ErrIncorrectUnblockDate, http.StatusBadRequest, "Incorrect unblock date"},
		{"invalid target", domain.ErrInvalidTarget, http.StatusBadRequest, domain.ErrInvalidTarget.Error()},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := resolveError(tc.err, zerolog.Nop(), newTestContext())
			if code != tc.wantCode {
				t.Errorf("code: got %d, want %d", code, tc.wantCode)
			}
			if body.Error != tc.wantBody {
				t.Errorf("body: got %q, want %q", body.Error, tc.wantBody)
			}
		})
	}
}

func TestResolveError_WrappedErrorStillMaps(t *testing.T) {
	wrapped := errors.Join(errors.New("reply_to"), domain.ErrPostNotFound)
	code, _ := resolveError(wrapped, zerolog.Nop(), newTestContext())
	if code != http.StatusNotFound {
		t.Errorf("wrapped sentinel must still map, got %d", code)
	}
}

func TestResolveError_DeniedCarriesReason(t *testing.T) {
	code, body := resolveError(access.Denied(access.ReasonNotOwner), zerolog.Nop(), newTestContext())
	if code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", code)
	}
	if body.Reason != string(access.ReasonNotOwner) {
		t.Errorf("expected reason %q, got %q", access.ReasonNotOwner, body.Reason)
	}
}

func TestResolveError_EchoHTTPErrorPassthrough(t *testing.T) {
	code, body := resolveError(echo.NewHTTPError(http.StatusTeapot, "short and stout"), zerolog.Nop(), newTestContext())
	if code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", code)
	}
	if body.Error != "short and stout" {
		t.Errorf("unexpected body: %q", body.Error)
	}
}

func TestResolveError_UnknownIs500(t *testing.T) {
	code, body := resolveError(errors.New("disk exploded"), zerolog.Nop(), newTestContext())
	if code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", code)
	}
	// Internals never leak to the client.
	if body.Error != "internal server error" {
		t.Errorf("unexpected body: %q", body.Error)
	}
}
