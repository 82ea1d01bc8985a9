package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bako110/backend/internal/domain"
	"github.com/bako110/backend/internal/registry"
	"github.com/bako110/backend/internal/repository"
	"github.com/bako110/backend/internal/token"
	"github.com/bako110/backend/internal/utils"
	"github.com/bako110/backend/internal/worker"
)

// AuthService handles the credential and session lifecycle: registration,
// login, logout, request authentication, the password-reset protocol and
// social login.
type AuthService struct {
	userRepo   repository.IUserRepository
	profiles   repository.IProfileStore
	hasher     *utils.PasswordHasher
	validator  *utils.Validator
	tokens     *token.Service
	revoked    registry.RevocationStore
	resetCodes *registry.ResetCodeRegistry
	social     ProviderVerifier
	config     AuthServiceConfig
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	PasswordMinLength int
	ResetCodeTTL      time.Duration
	NotifyPool        *worker.NotifyPool
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.IUserRepository,
	profiles repository.IProfileStore,
	hasher *utils.PasswordHasher,
	validator *utils.Validator,
	tokens *token.Service,
	revoked registry.RevocationStore,
	resetCodes *registry.ResetCodeRegistry,
	social ProviderVerifier,
	config AuthServiceConfig,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		profiles:   profiles,
		hasher:     hasher,
		validator:  validator,
		tokens:     tokens,
		revoked:    revoked,
		resetCodes: resetCodes,
		social:     social,
		config:     config,
	}
}

// RegisterRequest represents registration input
type RegisterRequest struct {
	Email           string
	Phone           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	AvatarURL       string
}

// RegisterResponse represents registration output
type RegisterResponse struct {
	Message string
	UserID  int64
}

// Register creates an account from an email and/or phone identifier, then
// requests creation of the companion profile document. Profile creation
// failure never rolls the account back.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, &domain.ValidationError{Message: "email or phone is required"}
	}
	if req.Password != req.PasswordConfirm {
		return nil, &domain.ValidationError{Message: "passwords do not match", Field: "password_confirm"}
	}
	if err := s.validator.ValidatePassword(req.Password, s.config.PasswordMinLength); err != nil {
		return nil, &domain.ValidationError{Message: err.Error(), Field: "password"}
	}
	if req.Email != "" {
		if err := s.validator.ValidateEmail(req.Email); err != nil {
			return nil, &domain.ValidationError{Message: "invalid email format", Field: "email"}
		}
	}
	if req.Phone != "" {
		if err := s.validator.ValidatePhone(req.Phone); err != nil {
			return nil, &domain.ValidationError{Message: "invalid phone format", Field: "phone"}
		}
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to process password", Err: err}
	}

	newUser := &domain.User{
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         "user",
	}
	if req.Email != "" {
		newUser.Email = &req.Email
	}
	if req.Phone != "" {
		newUser.Phone = &req.Phone
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	avatarURL := req.AvatarURL
	if avatarURL == "" {
		avatarURL = utils.DefaultAvatarURL(req.FirstName, req.LastName)
	}
	s.createProfileAsync(newUser, avatarURL)

	return &RegisterResponse{
		Message: "user registered successfully",
		UserID:  newUser.ID,
	}, nil
}

// LoginRequest represents login input
type LoginRequest struct {
	Identifier string
	Password   string
}

// UserSummary is the account view returned alongside a token
type UserSummary struct {
	ID    int64
	Email *string
	Phone *string
	Role  string
}

// LoginResponse represents login output
type LoginResponse struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        UserSummary
}

// Login authenticates a user by email-or-phone identifier and password. The
// error is identical for an unknown identifier and a wrong password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.UnauthorizedError{Message: "invalid identifier or password"}
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, &domain.UnauthorizedError{Message: "invalid identifier or password"}
	}

	return s.issueFor(user)
}

// LogoutRequest represents logout input
type LogoutRequest struct {
	Token string
}

// LogoutResponse represents logout output
type LogoutResponse struct {
	Message string
}

// Logout revokes the bearer token. Idempotent.
func (s *AuthService) Logout(ctx context.Context, req LogoutRequest) (*LogoutResponse, error) {
	if err := s.revoked.Revoke(ctx, req.Token); err != nil {
		return nil, &domain.InternalError{Message: "failed to revoke token", Err: err}
	}
	return &LogoutResponse{Message: "logged out successfully"}, nil
}

// Authenticate validates a bearer token for a protected call: the revocation
// registry is consulted first, then signature and expiry.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*token.Claims, error) {
	revoked, err := s.revoked.IsRevoked(ctx, tokenString)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to check revocation", Err: err}
	}
	if revoked {
		return nil, &domain.UnauthorizedError{Message: "token has been revoked"}
	}
	return s.tokens.Verify(tokenString)
}

// ForgotPasswordRequest represents forgot-password input
type ForgotPasswordRequest struct {
	Identifier string
}

// ForgotPasswordResponse represents forgot-password output
type ForgotPasswordResponse struct {
	Message string
}

// ForgotPassword starts the reset protocol: generates a code for the
// identifier and delivers it out-of-band. Email identifiers get mail; phone
// identifiers get the SMS placeholder.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if _, err := s.userRepo.FindByIdentifier(ctx, req.Identifier); err != nil {
		return nil, err
	}

	code, err := s.resetCodes.Request(req.Identifier)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to generate reset code", Err: err}
	}

	ttlMinutes := int(s.config.ResetCodeTTL.Minutes())
	if strings.Contains(req.Identifier, "@") {
		s.config.NotifyPool.Enqueue(worker.Task{
			Channel:   worker.ChannelEmail,
			Recipient: req.Identifier,
			Subject:   "Password reset",
			Body:      fmt.Sprintf("Your reset code is: %s\nIt expires in %d minutes.", code, ttlMinutes),
		})
	} else {
		s.config.NotifyPool.Enqueue(worker.Task{
			Channel:   worker.ChannelSMS,
			Recipient: req.Identifier,
			Body:      fmt.Sprintf("Reset code: %s", code),
		})
	}

	return &ForgotPasswordResponse{Message: "reset code sent"}, nil
}

// VerifyCodeRequest represents verify-code input
type VerifyCodeRequest struct {
	Code string
}

// VerifyCodeResponse represents verify-code output
type VerifyCodeResponse struct {
	Message    string
	Identifier string
}

// VerifyCode marks the attempt holding this code as verified and returns the
// identifier it belongs to.
func (s *AuthService) VerifyCode(ctx context.Context, req VerifyCodeRequest) (*VerifyCodeResponse, error) {
	identifier, err := s.resetCodes.Verify(req.Code)
	if err != nil {
		return nil, err
	}
	return &VerifyCodeResponse{
		Message:    "code verified successfully",
		Identifier: identifier,
	}, nil
}

// ResetPasswordRequest represents reset-password input
type ResetPasswordRequest struct {
	NewPassword     string
	ConfirmPassword string
}

// ResetPasswordResponse represents reset-password output
type ResetPasswordResponse struct {
	Message string
}

// ResetPassword consumes the verified reset attempt and replaces the
// account's password hash.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*ResetPasswordResponse, error) {
	if req.NewPassword != req.ConfirmPassword {
		return nil, &domain.ValidationError{Message: "passwords do not match", Field: "confirmPassword"}
	}
	if err := s.validator.ValidatePassword(req.NewPassword, s.config.PasswordMinLength); err != nil {
		return nil, &domain.ValidationError{Message: err.Error(), Field: "newPassword"}
	}

	identifier, err := s.resetCodes.Consume()
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to process password", Err: err}
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return nil, err
	}

	return &ResetPasswordResponse{Message: "password reset successfully"}, nil
}

// SocialLoginRequest represents social-login input
type SocialLoginRequest struct {
	Platform    string
	AccessToken string
}

// SocialLogin reconciles a social provider's verified claims with a local
// account: found accounts log in, absent ones are created with an empty
// password hash and the provider name as role.
func (s *AuthService) SocialLogin(ctx context.Context, req SocialLoginRequest) (*LoginResponse, error) {
	claims, err := s.social.VerifyToken(ctx, req.Platform, req.AccessToken)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, &domain.ValidationError{Message: "provider did not supply an email", Field: "access_token"}
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Email)
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, err
		}

		user = &domain.User{
			Email:        &claims.Email,
			PasswordHash: "",
			FirstName:    claims.FirstName,
			LastName:     claims.LastName,
			Role:         req.Platform,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		s.createProfileAsync(user, "")
	}

	return s.issueFor(user)
}

// MeResponse represents the authenticated account view
type MeResponse struct {
	User    *domain.User
	Profile *domain.Profile
}

// Me resolves the bearer token to its account and profile document. A
// missing profile is returned as nil, not an error (the non-atomic
// account/profile write makes that state reachable).
func (s *AuthService) Me(ctx context.Context, tokenString string) (*MeResponse, error) {
	claims, err := s.Authenticate(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByIdentifier(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByUserID(ctx, user.ID)
	if err != nil && !domain.IsNotFound(err) {
		zap.L().Warn("failed to load profile document", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return &MeResponse{User: user, Profile: profile}, nil
}

// Private helper methods

func (s *AuthService) issueFor(user *domain.User) (*LoginResponse, error) {
	accessToken, expiresAt, err := s.tokens.Issue(user.Identifier(), user.Role, user.ID)
	if err != nil {
		return nil, &domain.InternalError{Message: "failed to issue token", Err: err}
	}

	return &LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User: UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Phone: user.Phone,
			Role:  user.Role,
		},
	}, nil
}

// createProfileAsync requests the companion profile document without tying
// its outcome to the account write. No transaction spans the two stores; a
// failure here leaves an account without a profile and is only logged.
func (s *AuthService) createProfileAsync(user *domain.User, avatarURL string) {
	profile := domain.NewProfile(user, avatarURL)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.profiles.CreateProfile(ctx, profile); err != nil {
			zap.L().Error("profile document creation failed",
				zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}()
}
