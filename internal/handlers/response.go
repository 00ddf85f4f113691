package handlers

import (
	"encoding/json"
	"net/http"
	"taskBoard/internal/logger"

	"go.uber.org/zap"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

// responseWithJSON собирает ответ-объект из пар ключ/значение
func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	body := make(map[string]any, len(payload))
	for _, pl := range payload {
		body[pl.Key] = pl.Payload
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("HTTP: Ошибка записи ответа", zap.Error(err), zap.Int("http_status", code))
	}
}

// responseWithError - ошибка вне бизнес-логики: код для клиента и текст
func responseWithError(w http.ResponseWriter, code int, errorCode, message string) {
	responseWithJSON(w, code,
		toPayload("error", errorCode),
		toPayload("message", message))
}
