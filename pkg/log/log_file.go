package log

import (
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// getFileLogWriter returns the WriteSyncer for logging to a rotated file.
func getFileLogWriter(config *Config) zapcore.WriteSyncer {
	name := config.Filename
	if name == "" {
		name = "argus.log"
	}
	lumberJackLogger := &lumberjack.Logger{
		Filename:   filepath.Join(config.Path, name),
		MaxSize:    config.RotateSize,
		MaxBackups: config.RotateNum,
		MaxAge:     config.KeepDays,
		Compress:   true,
	}
	return zapcore.AddSync(lumberJackLogger)
}
