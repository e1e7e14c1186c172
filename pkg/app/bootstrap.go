// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/rotmarket/pkg/config"
	"github.com/chris/rotmarket/pkg/logging"
	"github.com/chris/rotmarket/pkg/notify"
	"github.com/chris/rotmarket/pkg/observability"
	"github.com/chris/rotmarket/pkg/scheduler"
	"github.com/chris/rotmarket/pkg/settlement"
	dydbstore "github.com/chris/rotmarket/pkg/storage/dynamodb"
	"github.com/chris/rotmarket/pkg/websockets"
	"go.uber.org/zap"
)

// Deps are the dependencies shared by every binary.
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *dydbstore.Store
	Scheduler scheduler.Scheduler
}

// Bootstrap loads configuration and connects to AWS.
func Bootstrap(ctx context.Context) (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	observability.Init()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	var sched scheduler.Scheduler = scheduler.NoOpScheduler{}
	if cfg.SettlementQueueURL != "" {
		sched = scheduler.NewSQSScheduler(sqs.NewFromConfig(awsCfg), cfg.SettlementQueueURL)
	} else {
		logger.Warn("SETTLEMENT_QUEUE_URL not set, sales are settled by the sweep only")
	}

	return &Deps{
		Config:    cfg,
		Logger:    logger,
		Store:     dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.Tables),
		Scheduler: sched,
	}, nil
}

// NewNotifier builds the notice dispatcher. publisher may be nil.
func (d *Deps) NewNotifier(publisher websockets.Publisher) *notify.Notifier {
	return notify.NewNotifier(d.Store, publisher, d.Logger, d.Config.NotificationWorkers)
}

// NewSettler builds the settlement component.
func (d *Deps) NewSettler(notifier notify.Dispatcher) *settlement.Settler {
	return settlement.NewSettler(d.Store, notifier, d.Scheduler, settlement.Options{
		Holding:           d.Config.HoldingWindow,
		BatchSize:         d.Config.SweepBatchSize,
		PlatformAccountID: d.Config.PlatformAccountID,
		Retry:             d.Config.RetryPolicy(),
	}, d.Logger)
}
