// Package conf loads TOML configuration files through viper, with hot
// reload on file change.
package conf

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/argus-sec/argus/pkg/log"
)

func init() {
	viper.AutomaticEnv()
}

// LoadConfigFile reads a TOML config file from confDir into cfg, which must
// be a non-nil pointer. The file is watched and re-unmarshaled on change.
func LoadConfigFile(confDir string, cfg any) error {
	cfgValue := reflect.ValueOf(cfg)
	if cfgValue.Kind() != reflect.Ptr || cfgValue.IsNil() {
		return errors.New("cfg must be a non-nil pointer")
	}

	vCfg := viper.New()
	vCfg.AddConfigPath(confDir)
	vCfg.SetConfigName("config")
	vCfg.SetConfigType("toml")

	if err := vCfg.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	vCfg.WatchConfig()
	vCfg.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name)
		if err := vCfg.Unmarshal(cfg); err != nil {
			log.Errorw("failed to unmarshal configuration file", "file", e.Name, "error", err)
		}
	})
	if err := vCfg.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	log.Infow("configuration loaded", "path", confDir)
	return nil
}
