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

package bootstrap

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/argus-sec/argus/internal/console/config"
	"github.com/argus-sec/argus/internal/console/notify"
	"github.com/argus-sec/argus/internal/console/service"
	"github.com/argus-sec/argus/pkg/shutdown"
)

// App bundles the wired console components.
type App struct {
	Queue     *notify.EmailQueue
	Provision *service.ProvisionService
	Users     *service.UserService
	Logger    *zap.Logger
	AppConf   config.AppConfig
}

// InitAppFunc is the wire-generated injector signature. The injector owns
// logger construction through log.ProviderSet.
type InitAppFunc func(configFile string) (*App, func(), error)

// NewApp assembles the App and its cleanup function. The queue is started
// by Run, not here, so injectors stay side-effect free.
func NewApp(
	queue *notify.EmailQueue,
	provision *service.ProvisionService,
	users *service.UserService,
	logger *zap.Logger,
	appConf config.AppConfig,
) (*App, func(), error) {
	cleanup := func() {
		logger.Info("stopping notification queue...")
		queue.Stop()
		logger.Info("notification queue stopped")
	}

	app := &App{
		Queue:     queue,
		Provision: provision,
		Users:     users,
		Logger:    logger,
		AppConf:   appConf,
	}
	return app, cleanup, nil
}

// Bootstrap builds the App through the injector, which loads the
// configuration and installs the global logger along the way.
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), config.AppConfig, error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, config.AppConfig{}, err
	}
	return app, cleanup, app.AppConf, nil
}

// Run starts the queue and the optional metrics listener, then blocks
// until a termination signal arrives and shuts everything down.
func Run(app *App, cleanup func()) {
	sugar := app.Logger.Sugar()
	mgr := shutdown.NewManager()

	app.Queue.Start()
	sugar.Infow("notification queue started",
		"tickInterval", app.AppConf.Queue.TickInterval,
		"maxRetries", app.AppConf.Queue.MaxRetries,
	)

	var metricsSrv *http.Server
	if addr := app.AppConf.Metrics.Listen; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux}
		go func() {
			sugar.Infow("metrics listener started", "address", addr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				sugar.Errorw("metrics listener failed", "address", addr, "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		for sig := range quit {
			if mgr.Shutdown() {
				sugar.Infof("received signal: %v, shutting down gracefully...", sig)
				continue
			}
			// second signal while draining
			sugar.Warnf("received signal: %v during shutdown, forcing exit", sig)
			os.Exit(1)
		}
	}()

	<-mgr.Wait()

	if metricsSrv != nil {
		if err := metricsSrv.Close(); err != nil {
			sugar.Errorf("metrics listener shutdown error: %v", err)
		}
	}

	cleanup()
	app.Logger.Info("shutdown complete")
}
