/*
 * Copyright 2025 Carver Automation Corporation.
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

package models

import "strings"

// OBMServiceUCS is the OBM service kind for UCS-managed nodes.
const OBMServiceUCS = "ucs-obm-service"

const redactedValue = "REDACTED"

// OBMConfig describes how to reach a node's management controller through the UCS service.
type OBMConfig struct {
	URI         string            `json:"uri"`
	UCSUser     string            `json:"ucsUser"`
	UCSPassword string            `json:"ucsPassword"`
	DN          string            `json:"dn"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// OBMSetting binds an OBM service to a node.
type OBMSetting struct {
	ID      string    `json:"id"`
	Node    string    `json:"node"`
	Service string    `json:"service"`
	Config  OBMConfig `json:"config"`
}

// Clone returns a deep copy so callers can rewrite credentials without touching shared state.
func (c *OBMConfig) Clone() OBMConfig {
	out := *c

	if c.Extra != nil {
		out.Extra = make(map[string]string, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}

	return out
}

// Redacted returns a copy with every credential-like value replaced.
func (s *OBMSetting) Redacted() *OBMSetting {
	out := *s
	out.Config = s.Config.Clone()

	if out.Config.UCSPassword != "" {
		out.Config.UCSPassword = redactedValue
	}

	for k := range out.Config.Extra {
		if isSecretKey(k) {
			out.Config.Extra[k] = redactedValue
		}
	}

	return &out
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)

	return strings.Contains(key, "password") ||
		strings.Contains(key, "secret") ||
		strings.Contains(key, "community")
}
