//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/argus-sec/argus/internal/bootstrap"
	"github.com/argus-sec/argus/internal/console/config"
	"github.com/argus-sec/argus/pkg/log"
)

func initApp(configFile string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		log.ProviderSet,
		directoryProviderSet,
		notifyProviderSet,
		serviceProviderSet,
		bootstrap.NewApp,
	))
}
