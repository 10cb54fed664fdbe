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

package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is the identity of the caller for the lifetime of one request.
// It is created by the auth middleware and passed explicitly to every
// operation that needs to know who the user is.
type Session struct {
	UserID    string
	RequestID string
	IssuedAt  time.Time
}

// NewSession creates a session for the user with a fresh request id.
func NewSession(userID string) *Session {
	return &Session{
		UserID:    userID,
		RequestID: uuid.NewString(),
		IssuedAt:  time.Now().UTC(),
	}
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext extracts the session placed by WithSession.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
