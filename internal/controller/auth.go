package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/bako110/backend/internal/domain"
	"github.com/bako110/backend/internal/middleware"
	"github.com/bako110/backend/internal/service"
)

// AuthController exposes the auth service over HTTP JSON
type AuthController struct {
	authService service.IAuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService service.IAuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Routes registers the auth endpoints on a new mux
func (c *AuthController) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", c.Register)
	mux.HandleFunc("POST /api/auth/login", c.Login)
	mux.HandleFunc("POST /api/auth/logout", c.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", c.ForgotPassword)
	mux.HandleFunc("POST /api/auth/verify-code", c.VerifyCode)
	mux.HandleFunc("POST /api/auth/reset-password", c.ResetPassword)
	mux.HandleFunc("POST /api/auth/social-login", c.SocialLogin)
	mux.HandleFunc("GET /api/auth/me", c.Me)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

type registerPayload struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	AvatarURL       string `json:"avatar_url"`
}

// Register handles user registration
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := decodeJSON(r, &payload); err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp, err := c.authService.Register(r.Context(), service.RegisterRequest{
		Email:           payload.Email,
		Phone:           payload.Phone,
		Password:        payload.Password,
		PasswordConfirm: payload.PasswordConfirm,
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		AvatarURL:       payload.AvatarURL,
	})
	if err != nil {
		zap.L().Warn("register error", zap.Error(err))
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"msg":     resp.Message,
		"user_id": resp.UserID,
	})
}

type loginPayload struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login authenticates a user and returns a bearer token
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if payload.Identifier == "" {
		middleware.WriteError(w, &domain.ValidationError{Message: "identifier is required", Field: "identifier"})
		return
	}
	if payload.Password == "" {
		middleware.WriteError(w, &domain.ValidationError{Message: "password is required", Field: "password"})
		return
	}

	resp, err := c.authService.Login(r.Context(), service.LoginRequest{
		Identifier: payload.Identifier,
		Password:   payload.Password,
	})
	if err != nil {
		zap.L().Warn("login error", zap.Error(err))
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginBody(resp))
}

// Logout revokes the presented bearer token
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString := middleware.BearerToken(r)
	if tokenString == "" {
		middleware.WriteError(w, &domain.UnauthorizedError{Message: "missing bearer token"})
		return
	}

	resp, err := c.authService.Logout(r.Context(), service.LogoutRequest{Token: tokenString})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": resp.Message})
}

type forgotPasswordPayload struct {
	Identifier string `json:"identifier"`
}

// ForgotPassword requests a reset code for an identifier
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload forgotPasswordPayload
	if err := decodeJSON(r, &payload); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if payload.Identifier == "" {
		middleware.WriteError(w, &domain.ValidationError{Message: "identifier is required", Field: "identifier"})
		return
	}

	resp, err := c.authService.ForgotPassword(r.Context(), service.ForgotPasswordRequest{
		Identifier: payload.Identifier,
	})
	if err != nil {
		zap.L().Warn("forgot password error", zap.Error(err))
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": resp.Message})
}

type verifyCodePayload struct {
	Code string `json:"code"`
}

// VerifyCode verifies a reset code and returns its identifier
func (c *AuthController) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var payload verifyCodePayload
	if err := decodeJSON(r, &payload); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if payload.Code == "" {
		middleware.WriteError(w, &domain.ValidationError{Message: "code is required", Field: "code"})
		return
	}

	resp, err := c.authService.VerifyCode(r.Context(), service.VerifyCodeRequest{Code: payload.Code})
	if err != nil {
		zap.L().Warn("verify code error", zap.Error(err))
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"msg":        resp.Message,
		"identifier": resp.Identifier,
	})
}

type resetPasswordPayload struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResetPassword consumes the verified attempt and sets the new password
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordPayload
	if err := decodeJSON(r, &payload); err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp, err := c.authService.ResetPassword(r.Context(), service.ResetPasswordRequest{
		NewPassword:     payload.NewPassword,
		ConfirmPassword: payload.ConfirmPassword,
	})
	if err != nil {
		zap.L().Warn("reset password error", zap.Error(err))
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": resp.Message})
}

type socialLoginPayload struct {
	Platform    string `json:"platform"`
	AccessToken string `json:"access_token"`
}

// SocialLogin reconciles a provider token with a local account
func (c *AuthController) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var payload socialLoginPayload
	if err := decodeJSON(r, &payload); err != nil {
		middleware.WriteError(w, err)
		return
	}
	if payload.Platform == "" || payload.AccessToken == "" {
		middleware.WriteError(w, &domain.ValidationError{Message: "platform and access_token are required"})
		return
	}

	resp, err := c.authService.SocialLogin(r.Context(), service.SocialLoginRequest{
		Platform:    payload.Platform,
		AccessToken: payload.AccessToken,
	})
	if err != nil {
		zap.L().Warn("social login error", zap.Error(err))
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginBody(resp))
}

// Me returns the authenticated account and its profile document
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	tokenString := middleware.BearerToken(r)
	if tokenString == "" {
		middleware.WriteError(w, &domain.UnauthorizedError{Message: "missing bearer token"})
		return
	}

	resp, err := c.authService.Me(r.Context(), tokenString)
	if err != nil {
		zap.L().Warn("me error", zap.Error(err))
		middleware.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":         resp.User.ID,
			"email":      resp.User.Email,
			"phone":      resp.User.Phone,
			"first_name": resp.User.FirstName,
			"last_name":  resp.User.LastName,
			"role":       resp.User.Role,
		},
		"profile": resp.Profile,
	})
}

// Private helpers

func loginBody(resp *service.LoginResponse) map[string]any {
	return map[string]any{
		"access_token": resp.AccessToken,
		"token_type":   resp.TokenType,
		"user": map[string]any{
			"id":    resp.User.ID,
			"email": resp.User.Email,
			"phone": resp.User.Phone,
			"role":  resp.User.Role,
		},
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("malformed request body: %v", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
