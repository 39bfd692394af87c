package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// auth method    authenticates the upgrade request and extracts the account
// id from the token's subject claim. The token may arrive as a bearer header
// or, for browser websocket clients, as a query parameter.
func (s *server) auth(r *http.Request) (string, error) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return "", ErrNoAuthorization
	}

	validToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.AuthSecret), nil
	})
	if err != nil || !validToken.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	mapClaims, ok := validToken.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid map claims")
	}
	userId, err := mapClaims.GetSubject()
	if err != nil || userId == "" {
		return "", fmt.Errorf("user id not found")
	}
	return userId, nil
}
