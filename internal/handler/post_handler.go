package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "picstream/internal/errors"
	"picstream/internal/service"
)

// PostHandler handles post, like, comment and saved-post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CommentRequest carries a new comment's text.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreatePost godoc
// @Summary Publish a post with an image and optional caption
// @Tags posts
// @Accept mpfd
// @Produce json
// @Param caption formData string false "Caption (max 2200 chars)"
// @Param image formData file true "Image file"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Security BearerAuth
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	caption := c.FormValue("caption")
	image, err := readFormFile(c, "image")
	if err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), CurrentUser(c), caption, image)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "post created successfully", echo.Map{"post": post})
}

// GetAllPosts godoc
// @Summary List every post, newest first
// @Tags posts
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /posts/all [get]
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.postService.GetAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", echo.Map{"posts": posts})
}

// GetUserPosts godoc
// @Summary List one user's posts, newest first
// @Tags posts
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /posts/user/{id} [get]
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	posts, err := h.postService.GetUserPosts(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", echo.Map{"posts": posts})
}

// SaveOrUnsavePost godoc
// @Summary Toggle a post in the caller's saved list
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /posts/save/{id} [post]
func (h *PostHandler) SaveOrUnsavePost(c echo.Context) error {
	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	saved, err := h.postService.SaveOrUnsavePost(c.Request().Context(), CurrentUser(c), postID)
	if err != nil {
		return err
	}
	if saved {
		return success(c, http.StatusOK, "post saved successfully", nil)
	}
	return success(c, http.StatusOK, "post unsaved successfully", nil)
}

// DeletePost godoc
// @Summary Delete an owned post and everything attached to it
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.postService.DeletePost(c.Request().Context(), CurrentUser(c), postID); err != nil {
		return err
	}
	return success(c, http.StatusOK, "post deleted successfully", nil)
}

// LikeOrDislikePost godoc
// @Summary Toggle the caller's like on a post
// @Tags posts
// @Produce json
// @Param id path string true "Post id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /posts/like-dislike/{id} [post]
func (h *PostHandler) LikeOrDislikePost(c echo.Context) error {
	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	liked, err := h.postService.LikeOrDislikePost(c.Request().Context(), CurrentUser(c), postID)
	if err != nil {
		return err
	}
	if liked {
		return success(c, http.StatusOK, "post liked successfully", nil)
	}
	return success(c, http.StatusOK, "post unliked successfully", nil)
}

// AddComment godoc
// @Summary Add a comment to a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post id"
// @Param request body CommentRequest true "Comment text"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /posts/comment/{id} [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	postID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	comment, err := h.postService.AddComment(c.Request().Context(), CurrentUser(c), postID, req.Text)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "comment added successfully", echo.Map{"comment": comment})
}

func objectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("invalid id")
	}
	return id, nil
}

// readFormFile reads an optional multipart file field; a missing field
// returns nil bytes so services can apply their own required checks.
func readFormFile(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Validation("could not read the uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Validation("could not read the uploaded file")
	}
	return data, nil
}
