package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "picstream/internal/errors"
	"picstream/internal/service"
)

const tokenCookieName = "token"

// AuthHandler handles the account lifecycle endpoints.
type AuthHandler struct {
	authService  service.AuthService
	tokenExpiry  time.Duration
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, tokenExpiry time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenExpiry:  tokenExpiry,
		cookieSecure: cookieSecure,
	}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// VerifyRequest carries the verification passcode.
type VerifyRequest struct {
	OTP string `json:"otp" validate:"required"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgetPasswordRequest starts a password reset.
type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// ChangePasswordRequest changes the authenticated user's password.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=8"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required,eqfield=NewPassword"`
}

// Signup godoc
// @Summary Create an account and email its verification passcode
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	user, token, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return success(c, http.StatusCreated, "signup successful, check your email for the verification code", echo.Map{
		"user":  user,
		"token": token,
	})
}

// VerifyAccount godoc
// @Summary Verify the authenticated account with the emailed passcode
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verification passcode"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /auth/verify [post]
func (h *AuthHandler) VerifyAccount(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	user := CurrentUser(c)
	token, err := h.authService.VerifyAccount(c.Request().Context(), user, req.OTP)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return success(c, http.StatusOK, "your account is now verified", echo.Map{
		"user":  user,
		"token": token,
	})
}

// ResendOTP godoc
// @Summary Re-email a fresh verification passcode
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Security BearerAuth
// @Router /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	if err := h.authService.ResendOTP(c.Request().Context(), CurrentUser(c)); err != nil {
		return err
	}
	return success(c, http.StatusOK, "a new verification code has been sent to your email", nil)
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return success(c, http.StatusOK, "login successful", echo.Map{
		"user":  user,
		"token": token,
	})
}

// Logout godoc
// @Summary Discard the client-held session token
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	// There is no server-side invalidation; the cookie is overwritten with a
	// value that expires almost immediately.
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    "loggedout",
		Expires:  time.Now().Add(10 * time.Second),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
	})
	return success(c, http.StatusOK, "logout successful", nil)
}

// ForgetPassword godoc
// @Summary Email a short-lived password reset passcode
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgetPasswordRequest true "Account email"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Failure 500 {object} Response
// @Router /auth/forget-password [post]
func (h *AuthHandler) ForgetPassword(c echo.Context) error {
	var req ForgetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	if err := h.authService.ForgetPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return success(c, http.StatusOK, "a password reset code has been sent to your email", nil)
}

// ResetPassword godoc
// @Summary Reset the password with the emailed passcode
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset data"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	user, token, err := h.authService.ResetPassword(c.Request().Context(), service.ResetPasswordInput{
		Email:           req.Email,
		OTP:             req.OTP,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return success(c, http.StatusOK, "password reset successful", echo.Map{
		"user":  user,
		"token": token,
	})
}

// ChangePassword godoc
// @Summary Change the authenticated user's password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Password change data"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.Validation(err.Error())
	}

	user := CurrentUser(c)
	token, err := h.authService.ChangePassword(c.Request().Context(), user, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return success(c, http.StatusOK, "password changed successfully", echo.Map{
		"user":  user,
		"token": token,
	})
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenExpiry),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
	})
}
