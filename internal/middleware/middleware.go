package middleware

import (
	"context"
	"net/http"
	"taskBoard/internal/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const RequestIdKey contextKey = "request_id"

const maxRequestIDLen = 64

// RequestID берёт X-Request-ID клиента, если он печатный и не длиннее 64 символов,
// иначе выдаёт новый uuid
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-ID")
		if !validRequestID(requestId) {
			requestId = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestId)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIdKey, requestId)))
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (lw *loggingWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.status = code
		lw.wroteHeader = true
		lw.ResponseWriter.WriteHeader(code)
	}
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.wroteHeader {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

// Logging пишет пару строк HTTP_IN/HTTP_OUT; /health логируется на уровне debug
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := GetRequestID(r.Context())
		probe := r.URL.Path == "/health"

		inLevel := zap.InfoLevel
		if probe {
			inLevel = zap.DebugLevel
		}
		logger.Log(inLevel,
			"HTTP_IN: Начало запроса",
			zap.String("request_id", requestId),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client_ip", getIp(r)),
			zap.String("user_agent", r.UserAgent()),
		)

		lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)

		var outLevel zapcore.Level
		switch {
		case lw.status >= 500:
			outLevel = zap.ErrorLevel
		case lw.status >= 400:
			outLevel = zap.WarnLevel
		case probe:
			outLevel = zap.DebugLevel
		default:
			outLevel = zap.InfoLevel
		}
		logger.Log(outLevel,
			"HTTP_OUT: Завершение запроса",
			zap.String("request_id", requestId),
			zap.Int("status", lw.status),
			zap.Int("bytes_written", lw.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

// Recover превращает панику обработчика в 500
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.Warn("HTTP: Паника в обработчике",
				zap.Any("panic", rec),
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("path", r.URL.Path))

			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":      "internal_error",
				"message":    "Внутренняя ошибка сервера",
				"request_id": GetRequestID(r.Context()),
			})
		}()

		next.ServeHTTP(w, r)
	})
}
