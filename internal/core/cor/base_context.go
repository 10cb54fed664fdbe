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

// Package cor (Chain of Responsibility) provides the fundamental building blocks
// for creating workflows. This file defines `BaseContext`, the default
// implementation of the `Context` interface.
//
// A BaseContext lives for exactly one workflow execution (one HTTP request or
// one scheduled run). It is not safe for concurrent use; commands that fan
// out work must collect results before writing them back.
package cor

import (
	"context"
	"errors"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// BaseContext is the default implementation of the Context interface.
type BaseContext struct {
	data       map[string]interface{} // Values passed between commands.
	errors     map[string]error       // Errors keyed by the command name that produced them.
	errorOrder []string               // Keys of errors in the order they were first recorded.
	session    *model.Session         // The caller, nil for background runs.
	context    context.Context        // Cancellation, deadlines and trace spans.
}

// NewBaseContext creates an empty context.
func NewBaseContext() Context {
	return &BaseContext{
		data:   make(map[string]interface{}),
		errors: make(map[string]error),
	}
}

// NewBaseContextFor creates a context bound to a Go context and a session.
func NewBaseContextFor(ctx context.Context, session *model.Session) Context {
	out := NewBaseContext()
	out.SetContext(ctx)
	out.SetSession(session)
	return out
}

func (c *BaseContext) SetContext(context context.Context) {
	c.context = context
}

func (c *BaseContext) GetContext() context.Context {
	return c.context
}

func (c *BaseContext) SetSession(session *model.Session) {
	c.session = session
}

func (c *BaseContext) GetSession() *model.Session {
	return c.session
}

func (c *BaseContext) Add(key string, value interface{}) Context {
	c.data[key] = value
	return c
}

func (c *BaseContext) AddError(key string, err error) {
	if _, ok := c.errors[key]; !ok {
		c.errorOrder = append(c.errorOrder, key)
	}
	c.errors[key] = err
}

func (c *BaseContext) GetErrors() map[string]error {
	return c.errors
}

func (c *BaseContext) Err() error {
	if len(c.errorOrder) == 0 {
		return nil
	}
	errs := make([]error, 0, len(c.errorOrder))
	for _, key := range c.errorOrder {
		errs = append(errs, c.errors[key])
	}
	return errors.Join(errs...)
}

func (c *BaseContext) Get(key string) interface{} {
	return c.data[key]
}

func (c *BaseContext) Remove(key string) {
	delete(c.data, key)
}

func (c *BaseContext) HasErrors() bool {
	return len(c.errors) > 0
}
