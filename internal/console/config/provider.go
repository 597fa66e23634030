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
	"github.com/google/wire"

	"github.com/argus-sec/argus/internal/console/directory"
	"github.com/argus-sec/argus/internal/console/notify"
	"github.com/argus-sec/argus/pkg/log"
)

// ProviderSet exposes the application configuration and its subsystem
// slices for injection.
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideLogConfig,
	ProvideDirectoryConfig,
	ProvideSMTPConfig,
	ProvideQueueConfig,
	ProvideConsoleConfig,
)

func ProvideConf(confDir string) AppConfig {
	return NewConf(confDir)
}

func ProvideLogConfig(appConf AppConfig) *log.Config {
	logConf := appConf.Log
	return &logConf
}

func ProvideDirectoryConfig(appConf AppConfig) directory.Config {
	return appConf.Directory
}

func ProvideSMTPConfig(appConf AppConfig) notify.SMTPConfig {
	return appConf.SMTP
}

func ProvideQueueConfig(appConf AppConfig) notify.QueueConfig {
	return appConf.Queue
}

func ProvideConsoleConfig(appConf AppConfig) ConsoleConfig {
	return appConf.Console
}
