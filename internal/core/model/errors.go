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
	"errors"
	"fmt"
)

// Error taxonomy shared by the services, the stores and the HTTP layer.
var (
	ErrMissingFields           = errors.New("missing required fields")
	ErrInvalidChannelURL       = errors.New("invalid YouTube channel URL")
	ErrUnsupportedChannelURL   = errors.New("unsupported channel URL format")
	ErrChannelNotFound         = errors.New("channel not found")
	ErrVideoListUnavailable    = errors.New("could not fetch the video list")
	ErrVideoDetailsUnavailable = errors.New("could not fetch video details")
	ErrEmptyPrompt             = errors.New("prompt is empty")
	ErrEmptyGenerationResult   = errors.New("generated summary is empty")
	ErrCacheUnavailable        = errors.New("summary cache unavailable")
	ErrSubscriptionUnavailable = errors.New("subscription store unavailable")
	ErrUnauthenticated         = errors.New("login required")
)

// DefaultGenerationFailureMessage is used when the generative API gives no
// message of its own.
const DefaultGenerationFailureMessage = "API request failed"

// GenerationRequestFailedError is returned when the request to the generative
// endpoint fails. Message is the API supplied message, if any.
type GenerationRequestFailedError struct {
	Message string
	Err     error
}

func (e *GenerationRequestFailedError) Error() string {
	return fmt.Sprintf("generation request failed: %s", e.Message)
}

func (e *GenerationRequestFailedError) Unwrap() error {
	return e.Err
}

// GenerationFailedError is the summarizer level failure. Details is the human
// readable message returned to callers of the summarize endpoint.
type GenerationFailedError struct {
	Details string
	Err     error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("failed to generate summary: %s", e.Details)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Err
}

// NewGenerationFailedError wraps a generator failure, picking the most
// specific message available for the details field.
func NewGenerationFailedError(err error) *GenerationFailedError {
	details := err.Error()
	var reqErr *GenerationRequestFailedError
	switch {
	case errors.As(err, &reqErr):
		details = reqErr.Message
	case errors.Is(err, ErrEmptyGenerationResult):
		details = "Generated summary is empty"
	}
	return &GenerationFailedError{Details: details, Err: err}
}
