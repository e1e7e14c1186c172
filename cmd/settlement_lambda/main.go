package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
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
	// Initialize dependencies once per container.
	deps, err := app.Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("failed to bootstrap: %v", err)
	}
	logger = deps.Logger
	notifier = deps.NewNotifier(nil)
	settler = deps.NewSettler(notifier)
}

// HandleRequest settles the sales named in a batch of delayed queue messages.
// Failed records are reported individually so SQS redelivers only those.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	// Notices are delivered in the background and must finish before the
	// container is frozen.
	defer notifier.Wait()

	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		if err := settler.HandleMessage(ctx, message.Body); err != nil {
			logger.Error("failed to settle sale from queue message",
				zap.String("messageId", message.MessageId),
				zap.Error(err),
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp, nil
}

func main() {
	lambda.Start(HandleRequest)
}
