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

package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumshield/quantum-terminal/pkg/logger"
)

type fakeProvider struct {
	name      string
	available bool
	response  string
	err       error
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Send(context.Context, string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestScriptedResponses(t *testing.T) {
	s := NewScripted()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"email keyword", "Is my email safe?", "I can help you monitor your email security status. Currently, no suspicious activities detected for your account."},
		{"icloud keyword", "check my iCloud please", "I can help you monitor your email security status. Currently, no suspicious activities detected for your account."},
		{"scan keyword", "run a scan now", "Would you like me to initiate a new security scan for your systems? This can be scheduled immediately."},
		{"alert keyword", "any warning for me?", "No critical security alerts at this time. Your systems are currently operating within normal parameters."},
		{"fallback", "hello there", defaultResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Respond(tt.message))
		})
	}
}

func TestScriptedFirstRuleWins(t *testing.T) {
	s := NewScripted()

	// "email" appears before "scan" in the rule order.
	got := s.Respond("scan my email")
	assert.Contains(t, got, "email security status")
}

func TestRouterStatus(t *testing.T) {
	log := logger.NewTestLogger()

	empty := NewRouter(log)
	st := empty.Status()
	assert.False(t, st.Available)
	assert.Empty(t, st.Providers)

	mixed := NewRouter(log,
		&fakeProvider{name: "Claude", available: false},
		&fakeProvider{name: "Gemini", available: true},
	)

	st = mixed.Status()
	assert.True(t, st.Available)
	assert.False(t, st.Providers["Claude"])
	assert.True(t, st.Providers["Gemini"])
}

func TestRouterFallsBackToScripted(t *testing.T) {
	r := NewRouter(logger.NewTestLogger())

	got := r.Respond(context.Background(), "run a scan now", "")
	assert.Contains(t, got, "security scan")
}

func TestRouterPrefersNamedProvider(t *testing.T) {
	second := &fakeProvider{name: "Gemini", available: true, response: "from gemini"}
	r := NewRouter(logger.NewTestLogger(),
		&fakeProvider{name: "Claude", available: true, response: "from claude"},
		second,
	)

	got := r.Respond(context.Background(), "hello", "gemini")
	assert.Equal(t, "from gemini", got)
	assert.Equal(t, 1, second.calls)
}

func TestRouterRoutesSecurityPromptsFirst(t *testing.T) {
	first := &fakeProvider{name: "Claude", available: true, response: "from claude"}
	second := &fakeProvider{name: "Gemini", available: true, response: "from gemini"}
	r := NewRouter(logger.NewTestLogger(), first, second)

	assert.Equal(t, "from claude", r.Respond(context.Background(), "was there a breach?", ""))
	assert.Equal(t, "from gemini", r.Respond(context.Background(), "what time is it?", ""))
}

func TestRouterSkipsUnavailableProviders(t *testing.T) {
	second := &fakeProvider{name: "Gemini", available: true, response: "from gemini"}
	r := NewRouter(logger.NewTestLogger(),
		&fakeProvider{name: "Claude", available: false},
		second,
	)

	// Only one usable provider, so everything routes to it.
	assert.Equal(t, "from gemini", r.Respond(context.Background(), "hello", ""))
	assert.Equal(t, "from gemini", r.Respond(context.Background(), "scan please", ""))
}

func TestRouterProviderErrorMessage(t *testing.T) {
	failing := &fakeProvider{name: "Claude", available: true, err: errors.New("upstream timeout")}
	r := NewRouter(logger.NewTestLogger(), failing)

	got := r.Respond(context.Background(), "scan please", "")
	assert.Equal(t, "I'm having trouble connecting to the Claude service. Please try again later.", got)
}

func TestUnavailableProvider(t *testing.T) {
	p := &Unavailable{ProviderName: "Claude"}

	assert.Equal(t, "Claude", p.Name())
	assert.False(t, p.Available())

	msg, err := p.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Claude service is not available. Please ensure that your API key is properly configured.", msg)
}
