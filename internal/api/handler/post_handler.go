package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagefeed/social-system/internal/api/metrics"
	"github.com/pagefeed/social-system/internal/core/ports"
)

// PostHandler handles HTTP requests for post and engagement operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type createPostRequest struct {
	PageID  string  `json:"page_id" validate:"required"`
	Subject string  `json:"subject" validate:"max=200"`
	Content string  `json:"content" validate:"required,max=180"`
	ReplyTo *string `json:"reply_to"`
}

type updatePostRequest struct {
	Subject string `json:"subject" validate:"max=200"`
	Content string `json:"content" validate:"required,max=180"`
}

type likeRequest struct {
	Intent string `json:"intent" validate:"required,oneof=like unlike"`
}

type likeResponse struct {
	Liked    bool   `json:"liked"`
	Response string `json:"response"`
}

// Create handles POST /v1/posts.
//
// @Summary      Publish a post on one of your pages
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post attributes"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.CreatePost(c.Request().Context(), actor, ports.CreatePostInput{
		PageID:  req.PageID,
		Subject: req.Subject,
		Content: req.Content,
		ReplyTo: req.ReplyTo,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, post)
}

// Get handles GET /v1/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Post ID"
// @Success      200 {object}  domain.Post
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	post, err := h.service.GetPost(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Update handles PUT /v1/posts/:id.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Post ID"
// @Param        body  body      updatePostRequest  true  "Post attributes"
// @Success      200   {object}  domain.Post
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.service.UpdatePost(c.Request().Context(), actor, c.Param("id"), ports.UpdatePostInput{
		Subject: req.Subject,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /v1/posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id  path  string  true  "Post ID"
// @Success      204
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Like handles PUT /v1/posts/:id/like — the like/unlike toggle.
//
// @Summary      Like or unlike a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Post ID"
// @Param        body  body      likeRequest  true  "Like intent"
// @Success      200   {object}  likeResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/posts/{id}/like [put]
func (h *PostHandler) Like(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.LikeOrUnlike(c.Request().Context(), actor, c.Param("id"), ports.LikeIntent(req.Intent))
	if err != nil {
		return err
	}

	if result.Changed {
		metrics.LikesTotal.WithLabelValues(req.Intent).Inc()
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: result.Liked, Response: result.Message})
}

// List handles GET /v1/posts — every post the actor is allowed to see.
//
// @Summary      List visible posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}   domain.Post
// @Router       /v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	posts, err := h.service.VisiblePosts(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Liked handles GET /v1/posts/liked — the actor's liked posts.
//
// @Summary      List your liked posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}   domain.Post
// @Router       /v1/posts/liked [get]
func (h *PostHandler) Liked(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	posts, err := h.service.LikedPosts(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}
