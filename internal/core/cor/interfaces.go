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

// Package cor (Chain of Responsibility) provides the building blocks for the
// digest workflows. A workflow is a Chain of Commands sharing one Context per
// request; each command reads its input from the context, does one step, and
// writes its output back for the next command.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

const (
	// CtxIn is the default key for the primary input of a command. The BaseChain
	// fills it with the output of the previous command.
	CtxIn = "__IN__"
	// CtxOut is the default key where a command places its primary output.
	CtxOut = "__OUT__"
)

// Context is the state of one workflow execution: a property bag for the
// values passed between commands, the errors they recorded, the Go context
// carrying cancellation and spans, and the session of the caller.
type Context interface {
	// SetContext sets the standard Go `context.Context`.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go `context.Context`.
	GetContext() context.Context

	// SetSession binds the caller's session to this execution.
	SetSession(session *model.Session)

	// GetSession returns the caller's session, or nil for background executions.
	GetSession() *model.Session

	// Add stores a key-value pair and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error, keyed by the name of the command that produced it.
	AddError(key string, err error)

	// GetErrors returns all recorded errors.
	GetErrors() map[string]error

	// Err returns the recorded errors joined in the order they were added, or nil.
	Err() error

	// Get retrieves a value by its key.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any error has been recorded.
	HasErrors() bool
}

// Executable is anything that can run against a Context.
type Executable interface {
	Execute(context Context)
}

// Command is a single named workflow step with its own telemetry.
type Command interface {
	Executable

	// GetName returns the unique name of the command, used for logging and telemetry.
	GetName() string

	// GetInputParam returns the context key holding the command's input.
	GetInputParam() string

	// GetOutputParam returns the context key receiving the command's output.
	GetOutputParam() string

	// IsExecutable checks the preconditions for Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command that runs other commands in order.
type Chain interface {
	Command

	// ContinueOnFailure tells the chain whether to keep going after a command
	// records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
