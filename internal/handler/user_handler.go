package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"picstream/internal/service"
)

// UserHandler handles profile and social-graph endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile godoc
// @Summary Get a user's profile with their posts and saved posts
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /users/profile/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.userService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", profile)
}

// GetMe godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	return success(c, http.StatusOK, "authenticated user", echo.Map{"user": CurrentUser(c)})
}

// EditProfile godoc
// @Summary Update the caller's bio and/or profile picture
// @Tags users
// @Accept mpfd
// @Produce json
// @Param bio formData string false "Bio (max 500 chars)"
// @Param profilePicture formData file false "Profile picture"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Security BearerAuth
// @Router /users/edit-profile [post]
func (h *UserHandler) EditProfile(c echo.Context) error {
	var bio *string
	if v := c.FormValue("bio"); v != "" {
		bio = &v
	}
	image, err := readFormFile(c, "profilePicture")
	if err != nil {
		return err
	}

	user, err := h.userService.EditProfile(c.Request().Context(), CurrentUser(c), bio, image)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "profile updated successfully", echo.Map{"user": user})
}

// SuggestedUsers godoc
// @Summary List every user except the caller
// @Tags users
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /users/suggested [get]
func (h *UserHandler) SuggestedUsers(c echo.Context) error {
	users, err := h.userService.SuggestedUsers(c.Request().Context(), CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "", echo.Map{"users": users})
}

// FollowUnfollow godoc
// @Summary Toggle following another user
// @Tags users
// @Produce json
// @Param id path string true "Target user id"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /users/follow-unfollow/{id} [post]
func (h *UserHandler) FollowUnfollow(c echo.Context) error {
	targetID, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}
	user, following, err := h.userService.FollowUnfollow(c.Request().Context(), CurrentUser(c), targetID)
	if err != nil {
		return err
	}
	message := "unfollowed successfully"
	if following {
		message = "followed successfully"
	}
	return success(c, http.StatusOK, message, echo.Map{"user": user})
}
