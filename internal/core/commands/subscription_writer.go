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

package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// SubscriptionWriter subscribes the session user to ParamChannel. A failed
// write, including a missing session, stops the chain.
type SubscriptionWriter struct {
	cor.BaseCommand
	subscriber Subscriber
}

func NewSubscriptionWriter(name string, subscriber Subscriber) *SubscriptionWriter {
	out := &SubscriptionWriter{BaseCommand: *cor.NewBaseCommand(name), subscriber: subscriber}
	out.InputParamName = ParamChannel
	out.OutputParamName = ParamSubscription
	return out
}

func (c *SubscriptionWriter) Execute(context cor.Context) {
	channel := context.Get(c.GetInputParam()).(*model.Channel)
	subscription, err := c.subscriber.Subscribe(context.GetContext(), context.GetSession(), channel)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to subscribe to %s: %w", channel.ID, err))
		return
	}
	c.Succeed(context, subscription)
}
