package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pagefeed/social-system/internal/api/metrics"
	"github.com/pagefeed/social-system/internal/core/domain"
	"github.com/pagefeed/social-system/internal/core/ports"
)

// PageHandler handles HTTP requests for page and membership operations.
type PageHandler struct {
	service ports.PageService
}

func NewPageHandler(service ports.PageService) *PageHandler {
	return &PageHandler{service: service}
}

// --- Request / Response types ---

type pageRequest struct {
	Name        string   `json:"name"        validate:"required,max=80"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"        validate:"dive,required,max=30"`
	IsPrivate   bool     `json:"is_private"`
}

type pageResponse struct {
	ID             string     `json:"id"`
	UUID           string     `json:"uuid"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Tags           []string   `json:"tags"`
	OwnerID        string     `json:"owner_id"`
	Followers      []string   `json:"followers"`
	FollowRequests []string   `json:"follow_requests"`
	IsPrivate      bool       `json:"is_private"`
	IsBlocked      bool       `json:"is_blocked"`
	UnblockDate    *time.Time `json:"unblock_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toPageResponse(p *domain.Page, blocked bool) pageResponse {
	return pageResponse{
		ID:             p.ID,
		UUID:           p.UUID,
		Name:           p.Name,
		Description:    p.Description,
		Tags:           p.Tags,
		OwnerID:        p.OwnerID,
		Followers:      p.Followers,
		FollowRequests: p.FollowRequests,
		IsPrivate:      p.IsPrivate,
		IsBlocked:      blocked,
		UnblockDate:    p.UnblockDate,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type followResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

type requestsActionRequest struct {
	UserID string `json:"user_id"`
}

type requestsActionResponse struct {
	Processed int    `json:"processed"`
	Response  string `json:"response"`
}

type blockPageRequest struct {
	Permanent   bool       `json:"permanent"`
	UnblockDate *time.Time `json:"unblock_date"`
}

// Create handles POST /v1/pages.
//
// @Summary      Create a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      pageRequest  true  "Page attributes"
// @Success      201   {object}  pageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/pages [post]
func (h *PageHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.service.CreatePage(c.Request().Context(), actor, ports.PageInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPageResponse(page, false))
}

// List handles GET /v1/pages.
//
// @Summary      List visible pages
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id  query     string  false  "Filter by owner"
// @Param        tag       query     string  false  "Filter by tag"
// @Success      200       {array}   pageResponse
// @Router       /v1/pages [get]
func (h *PageHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListPages(c.Request().Context(), actor, ports.ListPagesFilter{
		OwnerID: c.QueryParam("owner_id"),
		Tag:     c.QueryParam("tag"),
	})
	if err != nil {
		return err
	}

	resp := make([]pageResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, toPageResponse(v.Page, v.IsBlocked))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/pages/:id.
//
// @Summary      Get a page
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Page ID"
// @Success      200 {object}  pageResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/pages/{id} [get]
func (h *PageHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetPage(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(view.Page, view.IsBlocked))
}

// Update handles PUT /v1/pages/:id.
//
// @Summary      Update a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Page ID"
// @Param        body  body      pageRequest  true  "Page attributes"
// @Success      200   {object}  pageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/pages/{id} [put]
func (h *PageHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.service.UpdatePage(c.Request().Context(), actor, c.Param("id"), ports.PageInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page, false))
}

// Delete handles DELETE /v1/pages/:id.
//
// @Summary      Delete a page and its posts
// @Tags         pages
// @Security     BearerAuth
// @Param        id  path  string  true  "Page ID"
// @Success      204
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/pages/{id} [delete]
func (h *PageHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePage(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Follow handles PUT /v1/pages/:id/follow — the follow/unfollow toggle.
//
// @Summary      Follow or unfollow a page
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Page ID"
// @Success      200 {object}  followResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/pages/{id}/follow [put]
func (h *PageHandler) Follow(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.FollowOrUnfollow(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	switch result.Status {
	case domain.NowFollowing:
		metrics.FollowsTotal.WithLabelValues("follow").Inc()
	case domain.Unsubscribed:
		metrics.FollowsTotal.WithLabelValues("unfollow").Inc()
	case domain.PendingApproval:
		metrics.FollowsTotal.WithLabelValues("request").Inc()
	}

	return c.JSON(http.StatusOK, followResponse{
		Status:   string(result.Status),
		Response: result.Message,
	})
}

// ListRequests handles GET /v1/pages/:id/requests.
//
// @Summary      List pending follow requests
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Page ID"
// @Success      200 {array}   domain.User
// @Failure      403 {object}  errorResponse
// @Router       /v1/pages/{id}/requests [get]
func (h *PageHandler) ListRequests(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListRequests(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// AcceptRequests handles PUT /v1/pages/:id/requests/accept. An empty
// body (no user_id) accepts every pending request.
//
// @Summary      Accept follow request(s)
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true   "Page ID"
// @Param        body  body      requestsActionRequest  false  "Target user (omit to accept all)"
// @Success      200   {object}  requestsActionResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/pages/{id}/requests/accept [put]
func (h *PageHandler) AcceptRequests(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req requestsActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.AcceptRequests(c.Request().Context(), actor, c.Param("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requestsActionResponse{
		Processed: result.Processed,
		Response:  result.Message,
	})
}

// DeclineRequests handles PUT /v1/pages/:id/requests/decline.
//
// @Summary      Decline follow request(s)
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true   "Page ID"
// @Param        body  body      requestsActionRequest  false  "Target user (omit to decline all)"
// @Success      200   {object}  requestsActionResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/pages/{id}/requests/decline [put]
func (h *PageHandler) DeclineRequests(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req requestsActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.DeclineRequests(c.Request().Context(), actor, c.Param("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requestsActionResponse{
		Processed: result.Processed,
		Response:  result.Message,
	})
}

// Block handles PUT /v1/pages/:id/block — staff moderation.
//
// @Summary      Block or unblock a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Page ID"
// @Param        body  body      blockPageRequest  true  "Block parameters"
// @Success      200   {object}  pageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/pages/{id}/block [put]
func (h *PageHandler) Block(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req blockPageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	page, err := h.service.BlockPage(c.Request().Context(), actor, ports.BlockPageInput{
		PageID:      c.Param("id"),
		Permanent:   req.Permanent,
		UnblockDate: req.UnblockDate,
	})
	if err != nil {
		return err
	}

	blocked := page.PermanentBlock || page.UnblockDate != nil
	return c.JSON(http.StatusOK, toPageResponse(page, blocked))
}

// Tags handles GET /v1/tags.
//
// @Summary      List registered tags
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  domain.Tag
// @Router       /v1/tags [get]
func (h *PageHandler) Tags(c echo.Context) error {
	tags, err := h.service.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}
