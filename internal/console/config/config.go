// Copyright 2025 Argus Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"sync"

	"github.com/argus-sec/argus/internal/console/directory"
	"github.com/argus-sec/argus/internal/console/notify"
	"github.com/argus-sec/argus/pkg/conf"
	"github.com/argus-sec/argus/pkg/log"
)

// ConsoleConfig holds console-level settings that belong to no single
// subsystem.
type ConsoleConfig struct {
	// AdminEmail receives the signup notice for every new tenant.
	AdminEmail string
	// BaseURL is the externally reachable console URL used to build
	// verification links.
	BaseURL string
}

// MetricsConfig controls the Prometheus exposition endpoint. An empty
// Listen address disables it.
type MetricsConfig struct {
	Listen string
}

// AppConfig is the root configuration unmarshaled from conf.d/config.toml.
type AppConfig struct {
	Log       log.Config
	Directory directory.Config
	SMTP      notify.SMTPConfig
	Queue     notify.QueueConfig
	Console   ConsoleConfig
	Metrics   MetricsConfig
}

var (
	cfg  AppConfig
	once sync.Once
)

// NewConf loads the application configuration from confDir exactly once.
func NewConf(confDir string) AppConfig {
	once.Do(func() {
		if err := conf.LoadConfigFile(confDir, &cfg); err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}
