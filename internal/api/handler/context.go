package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagefeed/social-system/internal/core/access"
	"github.com/pagefeed/social-system/internal/core/domain"
)

// ctxActor extracts the identity claims injected by the Auth middleware
// and performs a fast-fail check before any service call: user_id and
// role must be present (presence proves the middleware ran). Missing
// actor context denies by default rather than falling through.
func ctxActor(c echo.Context) (access.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return access.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	blocked, _ := c.Get("is_blocked").(bool)
	return access.Actor{
		ID:      userID,
		Role:    domain.Role(role),
		Blocked: blocked,
	}, nil
}
