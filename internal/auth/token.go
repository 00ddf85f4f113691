package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("недействительный токен")
	ErrExpiredToken = errors.New("срок действия токена истёк")
)

type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Claims - данные сессии внутри токена. ID (jti) используется для отзыва при выходе.
type Claims struct {
	UserID int64  `json:"uid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Session - проверенная сессия пользователя
type Session struct {
	UserID    int64
	Name      string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

type TokenManager struct {
	config TokenConfig
	now    func() time.Time
}

func NewTokenManager(config TokenConfig, now func() time.Time) *TokenManager {
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &TokenManager{config: config, now: now}
}

// Issue выпускает подписанный HS256 токен со случайным jti
func (m *TokenManager) Issue(userID int64, name, email string) (string, Session, error) {
	now := m.now()
	expiresAt := now.Add(m.config.TTL)
	tokenID := uuid.NewString()

	claims := Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    m.config.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", Session{}, fmt.Errorf("подпись токена: %w", err)
	}

	return signed, Session{
		UserID:    userID,
		Name:      name,
		Email:     email,
		TokenID:   tokenID,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

func (m *TokenManager) Parse(tokenString string) (Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(m.config.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuer(m.config.Issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrExpiredToken
		}
		return Session{}, ErrInvalidToken
	}
	if !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return Session{}, ErrInvalidToken
	}

	return Session{
		UserID:    claims.UserID,
		Name:      claims.Name,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
