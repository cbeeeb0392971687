package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/api/metrics"
	"github.com/inkpress/blog-api/internal/core/ports"
)

type commentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type commentEnvelope struct {
	Message string             `json:"message"`
	Comment *ports.CommentView `json:"comment"`
}

type commentsEnvelope struct {
	Message  string              `json:"message"`
	Comments []ports.CommentView `json:"comments"`
}

// CommentHandler handles comment endpoints nested under a post.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListForPost returns a post's comments, oldest first, with authors resolved.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Param        postId  path      string  true  "Post id"
// @Success      200     {object}  commentsEnvelope
// @Failure      404     {object}  errorResponse
// @Router       /api/posts/{postId}/comments [get]
func (h *CommentHandler) ListForPost(c echo.Context) error {
	comments, err := h.service.ListForPost(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentsEnvelope{Message: "comments fetched successfully", Comments: comments})
}

// Create adds a comment by the authenticated user.
//
// @Summary      Create comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        postId  path      string          true  "Post id"
// @Param        body    body      commentRequest  true  "Comment content"
// @Success      201     {object}  commentEnvelope
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/posts/{postId}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Create(c.Request().Context(), c.Param("postId"), user.ID, req.Content)
	if err != nil {
		return err
	}

	metrics.CommentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, commentEnvelope{Message: "comment created successfully", Comment: comment})
}

// Update edits a comment. Only the comment's owner may edit it.
//
// @Summary      Update comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        postId     path      string          true  "Post id"
// @Param        commentId  path      string          true  "Comment id"
// @Param        body       body      commentRequest  true  "New content"
// @Success      200        {object}  commentEnvelope
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/posts/{postId}/comments/{commentId} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.service.Update(c.Request().Context(), c.Param("commentId"), user.ID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentEnvelope{Message: "comment updated successfully", Comment: comment})
}

// Delete removes a comment. The owner or an admin may delete it.
//
// @Summary      Delete comment
// @Tags         comments
// @Produce      json
// @Param        postId     path      string  true  "Post id"
// @Param        commentId  path      string  true  "Comment id"
// @Success      200        {object}  messageResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/posts/{postId}/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("commentId"), user.ID, user.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "comment deleted successfully"})
}
