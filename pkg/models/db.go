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

// DatabaseConfig describes the Postgres cluster backing work items, OBM settings and nodes.
type DatabaseConfig struct {
	Host               string            `json:"host" yaml:"host"`
	Port               int               `json:"port" yaml:"port"`
	Database           string            `json:"database" yaml:"database"`
	Username           string            `json:"username" yaml:"username"`
	Password           string            `json:"password,omitempty" yaml:"password,omitempty" sensitive:"true"`
	SSLMode            string            `json:"ssl_mode,omitempty" yaml:"ssl_mode,omitempty"`
	ApplicationName    string            `json:"application_name,omitempty" yaml:"application_name,omitempty"`
	MaxConnections     int32             `json:"max_connections,omitempty" yaml:"max_connections,omitempty"`
	MinConnections     int32             `json:"min_connections,omitempty" yaml:"min_connections,omitempty"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime,omitempty" yaml:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod  Duration          `json:"health_check_period,omitempty" yaml:"health_check_period,omitempty"`
	StatementTimeout   Duration          `json:"statement_timeout,omitempty" yaml:"statement_timeout,omitempty"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty" yaml:"extra_runtime_params,omitempty"`
	CertDir            string            `json:"cert_dir,omitempty" yaml:"cert_dir,omitempty"`
	TLS                *TLSConfig        `json:"tls,omitempty" yaml:"tls,omitempty"`
	RunMigrations      bool              `json:"run_migrations,omitempty" yaml:"run_migrations,omitempty"`
}
