package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/argus-sec/argus/internal/console/config"
	"github.com/argus-sec/argus/internal/console/directory"
	"github.com/argus-sec/argus/internal/console/notify"
	"github.com/argus-sec/argus/internal/console/service"
	"github.com/argus-sec/argus/pkg/metrics"
)

// directoryProviderSet identity directory layer
var directoryProviderSet = wire.NewSet(
	provideDirectoryGateway,
)

func provideDirectoryGateway(cfg directory.Config) directory.Gateway {
	return directory.NewRESTClient(cfg)
}

// notifyProviderSet notification queue layer
var notifyProviderSet = wire.NewSet(
	provideTaskStore,
	provideMailer,
	provideQueueMetrics,
	provideQueue,
	provideEnqueuer,
)

func provideTaskStore() notify.TaskStore {
	return notify.NewMemoryTaskStore()
}

func provideMailer(cfg notify.SMTPConfig) notify.Mailer {
	return notify.NewSMTPMailer(cfg)
}

func provideQueueMetrics() *metrics.QueueMetrics {
	return metrics.NewQueueMetrics(prometheus.DefaultRegisterer)
}

func provideQueue(cfg notify.QueueConfig, store notify.TaskStore, mailer notify.Mailer, qm *metrics.QueueMetrics) *notify.EmailQueue {
	return notify.NewEmailQueue(cfg, store, mailer, notify.WithMetrics(qm))
}

func provideEnqueuer(queue *notify.EmailQueue) notify.Enqueuer {
	return queue
}

// serviceProviderSet console service layer
var serviceProviderSet = wire.NewSet(
	provideProvisionService,
	provideUserService,
)

func provideProvisionService(gw directory.Gateway, queue notify.Enqueuer, consoleConf config.ConsoleConfig) *service.ProvisionService {
	return service.NewProvisionService(gw, queue, consoleConf.AdminEmail, consoleConf.BaseURL)
}

func provideUserService(gw directory.Gateway, queue notify.Enqueuer) *service.UserService {
	return service.NewUserService(gw, queue)
}
