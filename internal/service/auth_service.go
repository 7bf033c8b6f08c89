package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"picstream/internal/auth"
	apperrors "picstream/internal/errors"
	"picstream/internal/mailer"
	"picstream/internal/model"
	"picstream/internal/otp"
	"picstream/internal/repository"
)

const bcryptCost = 10

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// ResetPasswordInput carries the fields of a password-reset request.
type ResetPasswordInput struct {
	Email           string
	OTP             string
	Password        string
	PasswordConfirm string
}

// AuthService orchestrates the account lifecycle:
// signup -> verify -> login -> logout -> password change/reset.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, string, error)
	VerifyAccount(ctx context.Context, user *model.User, code string) (string, error)
	ResendOTP(ctx context.Context, user *model.User) error
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ForgetPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) (*model.User, string, error)
	ChangePassword(ctx context.Context, user *model.User, current, newPassword, confirm string) (string, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	mail       mailer.Mailer
	verifyTTL  time.Duration
	resetTTL   time.Duration
}

// NewAuthService creates the account lifecycle service. The two OTP windows
// are passed in explicitly; verification is long-lived, reset is short.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, mail mailer.Mailer, verifyTTL, resetTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		mail:       mail,
		verifyTTL:  verifyTTL,
		resetTTL:   resetTTL,
	}
}

// Signup creates an unverified account and emails its verification passcode.
// If the email cannot be dispatched the account is deleted again, so signup
// is all-or-nothing from the caller's view.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if in.Password != in.PasswordConfirm {
		return nil, "", apperrors.Validation("passwords do not match")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.Conflict("this email address is already in use")
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "check existing user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "hash password", err)
	}

	code, err := otp.Generate()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "generate otp", err)
	}
	expires := time.Now().Add(s.verifyTTL)

	user := &model.User{
		Username:   strings.TrimSpace(in.Username),
		Email:      email,
		Password:   string(hashed),
		IsVerified: false,
		OTP:        code,
		OTPExpires: &expires,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", apperrors.Conflict("this email address is already in use")
		}
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "create user", err)
	}

	if err := s.mail.SendVerificationOTP(user.Email, user.Username, code); err != nil {
		// Compensating action: the half-created account must not survive a
		// failed verification email.
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			log.Printf("delete user after failed verification email: %v", delErr)
		}
		return nil, "", apperrors.Provider("could not send the verification email, please try again later", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "sign token", err)
	}
	return user, token, nil
}

// VerifyAccount checks the caller's verification passcode and, on success,
// marks the account verified, clears the OTP pair and issues a session token.
func (s *authService) VerifyAccount(ctx context.Context, user *model.User, code string) (string, error) {
	if code == "" {
		return "", apperrors.Validation("otp is required for verification")
	}
	if !otp.Matches(user.OTP, code) {
		return "", apperrors.Validation("incorrect otp")
	}
	if otp.IsExpired(user.OTPExpires, time.Now()) {
		return "", apperrors.Expired("your otp has expired, please request a new one")
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "mark verified", err)
	}
	user.IsVerified = true
	user.OTP = ""
	user.OTPExpires = nil

	token, err := s.jwtService.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "sign token", err)
	}
	return token, nil
}

// ResendOTP regenerates the verification passcode for an unverified account
// and emails it. A failed dispatch invalidates the new code.
func (s *authService) ResendOTP(ctx context.Context, user *model.User) error {
	if user.IsVerified {
		return apperrors.Validation("this account is already verified")
	}

	code, err := otp.Generate()
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "generate otp", err)
	}
	expires := time.Now().Add(s.verifyTTL)
	if err := s.users.SetVerificationOTP(ctx, user.ID, code, expires); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "store otp", err)
	}

	if err := s.mail.SendVerificationOTP(user.Email, user.Username, code); err != nil {
		// Invalidate the code we could not deliver; the cleanup itself is
		// best effort.
		if clearErr := s.users.ClearVerificationOTP(ctx, user.ID); clearErr != nil {
			log.Printf("clear otp after failed email: %v", clearErr)
		}
		return apperrors.Provider("could not send the verification email, please try again later", err)
	}
	return nil
}

// Login authenticates by email and password. The failure message does not
// distinguish an unknown email from a wrong password.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", apperrors.Unauthorized("incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("incorrect email or password")
	}

	token, err := s.jwtService.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "sign token", err)
	}
	return user, token, nil
}

// ForgetPassword stores a short-lived reset passcode and emails it. A failed
// dispatch clears the passcode again.
func (s *authService) ForgetPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("no user found with this email")
		}
		return apperrors.Wrap(apperrors.KindInternal, "find user", err)
	}

	code, err := otp.Generate()
	if err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "generate otp", err)
	}
	expires := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetOTP(ctx, user.ID, code, expires); err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "store reset otp", err)
	}

	if err := s.mail.SendPasswordResetOTP(user.Email, user.Username, code); err != nil {
		if clearErr := s.users.ClearResetOTP(ctx, user.ID); clearErr != nil {
			log.Printf("clear reset otp after failed email: %v", clearErr)
		}
		return apperrors.Provider("could not send the reset email, please try again later", err)
	}
	return nil
}

// ResetPassword matches email, passcode and an unexpired window in a single
// lookup; an expired and a wrong passcode are indistinguishable to the
// caller. On success the password is re-hashed and the reset pair cleared.
func (s *authService) ResetPassword(ctx context.Context, in ResetPasswordInput) (*model.User, string, error) {
	if in.Password != in.PasswordConfirm {
		return nil, "", apperrors.Validation("passwords do not match")
	}

	user, err := s.users.FindByResetOTP(ctx, strings.ToLower(strings.TrimSpace(in.Email)), in.OTP, time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", apperrors.Validation("invalid or expired otp")
		}
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "find user by reset otp", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "hash password", err)
	}
	if err := s.users.ResetPassword(ctx, user.ID, string(hashed)); err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "update password", err)
	}
	user.Password = string(hashed)
	user.ResetPasswordOTP = ""
	user.ResetPasswordOTPExpires = nil

	token, err := s.jwtService.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, "sign token", err)
	}
	return user, token, nil
}

// ChangePassword verifies the current password before re-hashing the new one.
func (s *authService) ChangePassword(ctx context.Context, user *model.User, current, newPassword, confirm string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return "", apperrors.Validation("current password is incorrect")
	}
	if newPassword != confirm {
		return "", apperrors.Validation("new passwords do not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "update password", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "sign token", err)
	}
	return token, nil
}
