package service

import (
	"context"

	"github.com/bako110/backend/internal/token"
)

// IAuthService defines the interface for the auth service
type IAuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, req LogoutRequest) (*LogoutResponse, error)
	Authenticate(ctx context.Context, tokenString string) (*token.Claims, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	VerifyCode(ctx context.Context, req VerifyCodeRequest) (*VerifyCodeResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) (*ResetPasswordResponse, error)
	SocialLogin(ctx context.Context, req SocialLoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, tokenString string) (*MeResponse, error)
}

// Compile-time check
var _ IAuthService = (*AuthService)(nil)
