// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package auth validates bearer tokens and turns them into a model.Session
// for the request. Tokens are HS256 JWTs whose subject is the user id.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// SessionKey is the gin context key holding the *model.Session.
const SessionKey = "session"

var (
	errMissingToken  = errors.New("missing bearer token")
	errInvalidToken  = errors.New("invalid token")
	errInvalidIssuer = errors.New("invalid token issuer")
	errNoSubject     = errors.New("token has no subject")
)

// Claims are the token claims; the subject is the user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator validates tokens against a shared secret.
type Authenticator struct {
	secret         []byte
	issuer         string
	allowAnonymous bool
	anonymousUser  string
}

func NewAuthenticator(config cloud.Auth) *Authenticator {
	if config.JWTSecret == "" && !config.AllowAnonymous {
		slog.Warn("no JWT secret configured, authenticated routes will reject every request")
	}
	return &Authenticator{
		secret:         []byte(config.JWTSecret),
		issuer:         config.Issuer,
		allowAnonymous: config.AllowAnonymous,
		anonymousUser:  config.AnonymousUser,
	}
}

// Required rejects requests without a valid token with 401. When anonymous
// access is allowed, requests without a token run as the anonymous user.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := a.sessionFor(c.Request)
		if err != nil {
			slog.DebugContext(c.Request.Context(), "request rejected", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": model.ErrUnauthenticated.Error()})
			return
		}
		c.Set(SessionKey, session)
		c.Request = c.Request.WithContext(model.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// SessionFrom returns the session placed by Required.
func SessionFrom(c *gin.Context) (*model.Session, bool) {
	value, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*model.Session)
	return session, ok && session != nil
}

func (a *Authenticator) sessionFor(r *http.Request) (*model.Session, error) {
	token, err := bearerToken(r)
	if errors.Is(err, errMissingToken) && a.allowAnonymous {
		return model.NewSession(a.anonymousUser), nil
	}
	if err != nil {
		return nil, err
	}
	claims, err := a.Validate(token)
	if err != nil {
		return nil, err
	}
	return model.NewSession(claims.Subject), nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}

// Validate parses the token and checks its signature, expiry, issuer and subject.
func (a *Authenticator) Validate(token string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, fmt.Errorf("%w: no secret configured", errInvalidToken)
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}
	if a.issuer != "" && claims.Issuer != a.issuer {
		return nil, errInvalidIssuer
	}
	if claims.Subject == "" {
		return nil, errNoSubject
	}
	return claims, nil
}

// MintToken signs a token for userID valid for ttl. Used by the CLI and tests.
func MintToken(config cloud.Auth, userID string, ttl time.Duration) (string, error) {
	if config.JWTSecret == "" {
		return "", errors.New("no JWT secret configured")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.JWTSecret))
}
