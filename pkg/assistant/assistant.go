/*
 * Copyright 2025 Quantum Shield Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package assistant implements the dashboard chat assistant: a scripted
// keyword responder plus an optional set of external language-model providers.
// The provider contract is minimal: given a text prompt, return a text
// response or an explicit unavailability string.
package assistant

import (
	"context"
	"strings"

	"github.com/quantumshield/quantum-terminal/pkg/logger"
)

// Provider is an external language-model backend.
type Provider interface {
	Name() string
	Available() bool
	Send(ctx context.Context, message string) (string, error)
}

// Status reports per-provider availability.
type Status struct {
	Providers map[string]bool `json:"providers"`
	Available bool            `json:"available"`
}

// securityKeywords steer security-flavored prompts toward the primary provider.
var securityKeywords = []string{"security", "privacy", "protect", "hack", "breach", "scan", "threat"}

// Router picks a provider per message, falling back to the scripted responder
// when none is configured or the chosen provider errors.
type Router struct {
	providers []Provider
	scripted  *Scripted
	log       logger.Logger
}

// NewRouter builds a router over the given providers. Order matters: the first
// provider is preferred for security-related prompts.
func NewRouter(log logger.Logger, providers ...Provider) *Router {
	return &Router{
		providers: providers,
		scripted:  NewScripted(),
		log:       log,
	}
}

// Status reports which providers are currently usable.
func (r *Router) Status() Status {
	st := Status{Providers: make(map[string]bool, len(r.providers))}

	for _, p := range r.providers {
		st.Providers[p.Name()] = p.Available()
		if p.Available() {
			st.Available = true
		}
	}

	return st
}

// Respond routes a message. A named preference wins when that provider is
// available; otherwise security-related prompts go to the first available
// provider and everything else to the next one. With no usable provider the
// scripted responder answers.
func (r *Router) Respond(ctx context.Context, message, preferred string) string {
	if p := r.pick(message, preferred); p != nil {
		response, err := p.Send(ctx, message)
		if err != nil {
			r.log.Warn().Err(err).Str("provider", p.Name()).Msg("Provider request failed")
			return "I'm having trouble connecting to the " + p.Name() + " service. Please try again later."
		}

		return response
	}

	return r.scripted.Respond(message)
}

func (r *Router) pick(message, preferred string) Provider {
	var available []Provider

	for _, p := range r.providers {
		if p.Available() {
			available = append(available, p)
		}
	}

	if len(available) == 0 {
		return nil
	}

	if preferred != "" {
		for _, p := range available {
			if strings.EqualFold(p.Name(), preferred) {
				return p
			}
		}
	}

	if isSecurityRelated(message) || len(available) == 1 {
		return available[0]
	}

	return available[1]
}

func isSecurityRelated(message string) bool {
	lower := strings.ToLower(message)

	for _, kw := range securityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

// Unavailable is a Provider stub for backends without configured credentials.
// Send always reports the unavailability string required by the collaborator
// contract.
type Unavailable struct {
	ProviderName string
}

func (u *Unavailable) Name() string  { return u.ProviderName }
func (*Unavailable) Available() bool { return false }

func (u *Unavailable) Send(context.Context, string) (string, error) {
	return u.ProviderName + " service is not available. Please ensure that your API key is properly configured.", nil
}
