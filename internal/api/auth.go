package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const accountNumberKey contextKey = "account_number"

// issueToken signs a bearer token carrying the authenticated account
// number.
func (h *Handler) issueToken(accountNumber int64, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"acct": accountNumber,
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(h.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// AuthMiddleware validates the bearer token and stashes the account
// number in the request context. Account-scoped handlers act on that
// number, never on one supplied in the body, so a token can only move
// its own money.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			respondWithError(w, http.StatusUnauthorized, "Authorization header is required", r.Method, r.URL.Path)
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondWithError(w, http.StatusUnauthorized, "Invalid token", r.Method, r.URL.Path)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid token claims", r.Method, r.URL.Path)
			return
		}
		acct, ok := claims["acct"].(float64)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Invalid account claim", r.Method, r.URL.Path)
			return
		}

		ctx := context.WithValue(r.Context(), accountNumberKey, int64(acct))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionAccount pulls the authenticated account number out of the
// request context.
func sessionAccount(r *http.Request) (int64, bool) {
	n, ok := r.Context().Value(accountNumberKey).(int64)
	return n, ok
}
