package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/rotmarket/pkg/app"
	"github.com/chris/rotmarket/pkg/notify"
	"github.com/chris/rotmarket/pkg/settlement"
	"go.uber.org/zap"
)

var (
	settler  *settlement.Settler
	notifier *notify.Notifier
	logger   *zap.Logger
)

func init() {
	deps, err := app.Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("failed to bootstrap: %v", err)
	}
	logger = deps.Logger
	notifier = deps.NewNotifier(nil)
	settler = deps.NewSettler(notifier)
}

// HandleRequest is triggered by an EventBridge Schedule. It settles pending
// sales whose queue message was lost or never sent.
func HandleRequest(ctx context.Context) (*settlement.SweepResult, error) {
	defer notifier.Wait()

	result, err := settler.Sweep(ctx)
	if err != nil {
		logger.Error("settlement sweep failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func main() {
	lambda.Start(HandleRequest)
}
