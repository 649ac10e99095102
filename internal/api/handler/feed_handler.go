package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagefeed/social-system/internal/core/ports"
)

// FeedHandler serves the personalized newsfeed.
type FeedHandler struct {
	service ports.FeedService
}

func NewFeedHandler(service ports.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

// Newsfeed handles GET /v1/feed — posts from followed, unblocked pages,
// newest first.
//
// @Summary      Get your newsfeed
// @Tags         feed
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}   domain.Post
// @Router       /v1/feed [get]
func (h *FeedHandler) Newsfeed(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	posts, err := h.service.Newsfeed(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
