package handlers

import (
	"net/http"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/service"
	"time"

	"go.uber.org/zap"
)

type AuthHandler struct {
	UserService  UserService
	SecureCookie bool
}

func NewAuthHandler(userService UserService, secureCookie bool) AuthHandler {
	return AuthHandler{
		UserService:  userService,
		SecureCookie: secureCookie,
	}
}

func (s *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.RegisterRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := s.UserService.Register(r.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		handleServiceError(w, r, err, "register")
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован",
		zap.Int64("user_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("user", created.Public()))
}

func (s *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.LoginRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	result, err := s.UserService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		handleServiceError(w, r, err, "login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("HTTP_OUT: Вход выполнен",
		zap.Int64("user_id", result.User.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("token", result.Token),
		toPayload("expires_at", result.Session.ExpiresAt),
		toPayload("user", result.User))
}

func (s *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, service.CodeUnauthorized, "Войдите в систему")
		return
	}

	if err := s.UserService.Logout(r.Context(), session); err != nil {
		handleServiceError(w, r, err, "logout")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("HTTP_OUT: Выход выполнен", zap.Int64("user_id", session.UserID))
	w.WriteHeader(http.StatusNoContent)
}
