package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"picstream/internal/auth"
	"picstream/internal/config"
	apperrors "picstream/internal/errors"
	"picstream/internal/handler"
	"picstream/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	users repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/forget-password", authHandler.ForgetPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// Secured routes require a valid token, carried either as a bearer
	// header or the session cookie, resolving to an existing user.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:Authorization:Bearer ,cookie:token",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return apperrors.Unauthorized("you must be logged in to access this resource")
			},
		}),
		handler.LoadCurrentUser(users),
	)

	// Verification runs on the authenticated-but-unverified account.
	secured.POST("/auth/verify", authHandler.VerifyAccount)
	secured.POST("/auth/resend-otp", authHandler.ResendOTP)
	secured.POST("/auth/change-password", authHandler.ChangePassword)

	secured.GET("/users/me", userHandler.GetMe)
	secured.GET("/users/profile/:id", userHandler.GetProfile)
	secured.GET("/users/suggested", userHandler.SuggestedUsers)
	secured.POST("/users/edit-profile", userHandler.EditProfile)
	secured.POST("/users/follow-unfollow/:id", userHandler.FollowUnfollow)

	secured.POST("/posts", postHandler.CreatePost)
	secured.GET("/posts/all", postHandler.GetAllPosts)
	secured.GET("/posts/user/:id", postHandler.GetUserPosts)
	secured.POST("/posts/save/:id", postHandler.SaveOrUnsavePost)
	secured.POST("/posts/like-dislike/:id", postHandler.LikeOrDislikePost)
	secured.POST("/posts/comment/:id", postHandler.AddComment)
	secured.DELETE("/posts/:id", postHandler.DeletePost)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// errorHandler is the single boundary that maps error kinds to status codes
// and the response envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := apperrors.HTTPStatus(err)
	message := apperrors.Message(err)

	// Errors raised by echo itself (404s, bad routes, middleware).
	if httpErr, ok := err.(*echo.HTTPError); ok {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if jsonErr := c.JSON(status, handler.Response{
		Status:  "error",
		Message: message,
	}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
