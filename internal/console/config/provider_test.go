package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[log]
output = "stdout"
level = "debug"

[directory]
baseURL = "http://directory.test:9000"
token = "secret"
timeout = "5s"

[smtp]
host = "mail.test"
port = 2525
from = "noreply@test"

[queue]
tickInterval = "250ms"
retryDelay = "10s"
maxRetries = 2

[console]
adminEmail = "ops@test"
baseURL = "https://console.test"

[metrics]
listen = ""
`

func TestProviderSlices(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(testConfig), 0o644))

	appConf := ProvideConf(dir)

	logConf := ProvideLogConfig(appConf)
	assert.Equal(t, "stdout", logConf.Output)
	assert.Equal(t, "debug", logConf.Level)

	dirConf := ProvideDirectoryConfig(appConf)
	assert.Equal(t, "http://directory.test:9000", dirConf.BaseURL)
	assert.Equal(t, "secret", dirConf.Token)
	assert.Equal(t, 5*time.Second, dirConf.Timeout)

	smtpConf := ProvideSMTPConfig(appConf)
	assert.Equal(t, "mail.test", smtpConf.Host)
	assert.Equal(t, 2525, smtpConf.Port)

	queueConf := ProvideQueueConfig(appConf)
	assert.Equal(t, 250*time.Millisecond, queueConf.TickInterval)
	assert.Equal(t, 10*time.Second, queueConf.RetryDelay)
	assert.Equal(t, 2, queueConf.MaxRetries)

	consoleConf := ProvideConsoleConfig(appConf)
	assert.Equal(t, "ops@test", consoleConf.AdminEmail)
	assert.Equal(t, "https://console.test", consoleConf.BaseURL)
}

func TestProvideLogConfigCopies(t *testing.T) {
	appConf := AppConfig{}
	appConf.Log.Level = "info"

	logConf := ProvideLogConfig(appConf)
	logConf.Level = "error"
	assert.Equal(t, "info", appConf.Log.Level, "provider must hand out a copy")
}
