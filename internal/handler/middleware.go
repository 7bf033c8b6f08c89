package handler

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"picstream/internal/auth"
	apperrors "picstream/internal/errors"
	"picstream/internal/model"
	"picstream/internal/repository"
)

const currentUserKey = "currentUser"

// LoadCurrentUser resolves the validated token's claims to a live user record
// and stashes it in the request context. Runs after the JWT middleware.
func LoadCurrentUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return apperrors.Unauthorized("you must be logged in to access this resource")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return apperrors.Unauthorized("invalid session token")
			}
			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return apperrors.Unauthorized("invalid session token")
			}
			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				return apperrors.Unauthorized("the user belonging to this token no longer exists")
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user loaded by LoadCurrentUser.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}
