package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/tradeweave/wallet-ledger/pkg/payout"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	dydbstore "github.com/tradeweave/wallet-ledger/pkg/storage/dynamodb"
)

var (
	store   storage.ApiStore
	gateway payout.Gateway
)

// stuckWithdrawalThreshold is how long a withdrawal may sit pending before
// the sweep re-dispatches it.
const stuckWithdrawalThreshold = 20 * time.Minute

const dueSettlementBatch = 50

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	tables, err := dydbstore.TablesFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	store = dydbstore.New(dynamodb.NewFromConfig(cfg), tables)

	gateway = payout.NoOpGateway{}
	if gatewayURL := os.Getenv("PAYOUT_GATEWAY_URL"); gatewayURL != "" {
		gateway = payout.NewHTTPGateway(gatewayURL, os.Getenv("PAYOUT_GATEWAY_API_KEY"))
	}
}

// HandleRequest is triggered by an EventBridge Schedule. It runs the three
// repair sweeps: expired locks, due settlements and stuck withdrawals.
// Per-item failures are logged and skipped so one bad record never wedges
// the whole reconciliation.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting reconciliation...")

	expired, err := store.ProcessExpiredLocks(ctx)
	if err != nil {
		log.Printf("ERROR: failed to process expired locks: %v", err)
	} else if expired > 0 {
		log.Printf("Released %d expired locks", expired)
	}

	reconcileSettlements(ctx)
	reconcileWithdrawals(ctx)

	log.Println("Reconciliation finished.")
	return nil
}

func reconcileSettlements(ctx context.Context) {
	due, err := store.ListDueSettlements(ctx, time.Now().UTC(), dueSettlementBatch)
	if err != nil {
		log.Printf("ERROR: failed to list due settlements: %v", err)
		return
	}

	for _, settlement := range due {
		if _, err := store.ExecuteSettlement(ctx, settlement.ID); err != nil {
			log.Printf("ERROR: failed to execute settlement %s: %v", settlement.ID, err)
			if markErr := store.MarkSettlementFailed(ctx, settlement.ID, err); markErr != nil {
				log.Printf("ERROR: failed to record settlement failure %s: %v", settlement.ID, markErr)
			}
			continue
		}
		log.Printf("Executed due settlement %s", settlement.ID)
	}
}

func reconcileWithdrawals(ctx context.Context) {
	stuck, err := store.ListStuckWithdrawals(ctx, stuckWithdrawalThreshold)
	if err != nil {
		log.Printf("ERROR: failed to list stuck withdrawals: %v", err)
		return
	}

	for _, req := range stuck {
		// The withdrawal ID is the dedupe reference: if the first dispatch
		// succeeded but the status flip was lost, the gateway sees a replay,
		// not a second disbursement.
		gatewayRef, err := gateway.InitiatePayout(ctx, req.ID, req.Method, req.Destination, req.Amount)
		if err != nil {
			log.Printf("ERROR: failed to re-dispatch withdrawal %s: %v", req.ID, err)
			continue
		}
		if _, err := store.MarkWithdrawalProcessing(ctx, req.ID, gatewayRef); err != nil {
			log.Printf("ERROR: failed to mark withdrawal %s processing: %v", req.ID, err)
			continue
		}
		log.Printf("Re-dispatched stuck withdrawal %s", req.ID)
	}
}

func main() {
	lambda.Start(HandleRequest)
}
