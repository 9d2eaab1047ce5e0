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

import "strings"

const defaultResponse = "I'm processing your request. As a Quantum Terminal Assistant, " +
	"I'm here to help with your cybersecurity needs."

// scriptedRule maps trigger keywords to a canned reply. Rules are evaluated in
// order; the first match wins.
type scriptedRule struct {
	keywords []string
	response string
}

// Scripted is the keyword-matched canned responder used when no external
// provider is configured.
type Scripted struct {
	rules []scriptedRule
}

func NewScripted() *Scripted {
	return &Scripted{
		rules: []scriptedRule{
			{
				keywords: []string{"email", "icloud"},
				response: "I can help you monitor your email security status. " +
					"Currently, no suspicious activities detected for your account.",
			},
			{
				keywords: []string{"scan", "security"},
				response: "Would you like me to initiate a new security scan for your systems? " +
					"This can be scheduled immediately.",
			},
			{
				keywords: []string{"alert", "warning"},
				response: "No critical security alerts at this time. " +
					"Your systems are currently operating within normal parameters.",
			},
		},
	}
}

// Respond returns the first matching canned reply, or the default greeting.
func (s *Scripted) Respond(message string) string {
	lower := strings.ToLower(message)

	for _, rule := range s.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.response
			}
		}
	}

	return defaultResponse
}
