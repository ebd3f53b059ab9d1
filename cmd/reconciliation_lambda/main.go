package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/invoice-funding-marketplace/pkg/bootstrap"
	"github.com/chris/invoice-funding-marketplace/pkg/config"
	"github.com/chris/invoice-funding-marketplace/pkg/marketplace"
)

var service *marketplace.Marketplace

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	deps, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialise backends: %v", err)
	}
	service = deps.Marketplace(cfg)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) (*marketplace.ReconcileReport, error) {
	log.Println("Starting reconciliation of stuck fundings...")

	report, err := service.ReconcileStuckFundings(ctx)
	if err != nil {
		log.Printf("ERROR: reconciliation failed: %v", err)
		return nil, err
	}

	if report.Examined == 0 {
		log.Println("No stuck fundings found.")
		return report, nil
	}

	log.Printf("Reconciliation finished: examined=%d confirmed=%d rolled_back=%d failed=%d",
		report.Examined, report.Confirmed, report.RolledBack, report.Failed)
	return report, nil
}

func main() {
	lambda.Start(HandleRequest)
}
