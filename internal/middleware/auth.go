package middleware

import (
	"context"
	"net/http"
	"strings"
	"taskBoard/internal/auth"
	"taskBoard/internal/logger"
	"taskBoard/internal/service"

	"go.uber.org/zap"
)

const SessionKey contextKey = "session"

// SessionCookie - имя cookie, в которую кладётся токен при входе
const SessionCookie = "session"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Session, error)
}

// Authenticate пропускает дальше только запросы с действующей сессией.
// Токен берётся из заголовка Authorization: Bearer, затем из cookie.
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authenticator.Authenticate(r.Context(), TokenFromRequest(r))
			if err != nil {
				busErr, ok := service.AsBusinessError(err)
				if !ok {
					logger.Error("HTTP: Ошибка проверки сессии", err,
						zap.String("request_id", GetRequestID(r.Context())))
					writeJSON(w, http.StatusInternalServerError, map[string]any{
						"error":   "internal_error",
						"message": "Не удалось проверить сессию",
					})
					return
				}

				logger.Warn("HTTP: Запрос без сессии",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"error":   busErr.Code,
					"message": busErr.Message,
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func WithSession(ctx context.Context, session auth.Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

func GetSession(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(SessionKey).(auth.Session)
	return session, ok
}
