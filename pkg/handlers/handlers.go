package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradeweave/wallet-ledger/pkg/events"
	disputeshandler "github.com/tradeweave/wallet-ledger/pkg/handlers/disputes"
	eventshandler "github.com/tradeweave/wallet-ledger/pkg/handlers/events"
	ledgerhandler "github.com/tradeweave/wallet-ledger/pkg/handlers/ledger"
	lockshandler "github.com/tradeweave/wallet-ledger/pkg/handlers/locks"
	settlementshandler "github.com/tradeweave/wallet-ledger/pkg/handlers/settlements"
	walletshandler "github.com/tradeweave/wallet-ledger/pkg/handlers/wallets"
	webhookshandler "github.com/tradeweave/wallet-ledger/pkg/handlers/webhooks"
	withdrawalshandler "github.com/tradeweave/wallet-ledger/pkg/handlers/withdrawals"
	"github.com/tradeweave/wallet-ledger/pkg/middleware"
	"github.com/tradeweave/wallet-ledger/pkg/payout"
	"github.com/tradeweave/wallet-ledger/pkg/scheduler"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
	"github.com/tradeweave/wallet-ledger/pkg/tiers"
)

// Capabilities required by the business routes. Tokens carry them in the
// "cap" claim.
const (
	CapWalletRead        = "wallet:read"
	CapWalletLock        = "wallet:lock"
	CapDisputeArbitrate  = "dispute:arbitrate"
	CapSettlementProcess = "settlement:process"
	CapWithdrawalRequest = "withdrawal:request"
)

// Config carries the dependencies of the HTTP surface.
type Config struct {
	Store         storage.Storage
	Tiers         tiers.Source
	Gateway       payout.Gateway
	Scheduler     scheduler.Scheduler
	Publisher     events.Publisher
	Verifier      *middleware.CapabilityVerifier
	WebhookSecret string
	Logger        *slog.Logger
}

// NewRouter builds the chi router: structured request logging on
// everything, capability guards on the business routes, signature checks on
// the webhooks, and the operational endpoints left open.
func NewRouter(cfg Config) chi.Router {
	wallets := walletshandler.NewWalletsHandler(cfg.Store)
	ledger := ledgerhandler.NewLedgerHandler(cfg.Store)
	locks := lockshandler.NewLocksHandler(cfg.Store, cfg.Publisher)
	disputes := disputeshandler.NewDisputesHandler(cfg.Store)
	settlements := settlementshandler.NewSettlementsHandler(cfg.Store, cfg.Tiers, cfg.Scheduler)
	withdrawals := withdrawalshandler.NewWithdrawalsHandler(cfg.Store, cfg.Tiers, cfg.Gateway)
	webhooks := webhookshandler.NewWebhooksHandler(cfg.Store, cfg.Store, cfg.Publisher, cfg.WebhookSecret)
	stream := eventshandler.NewHandler(cfg.Store)

	r := chi.NewRouter()
	r.Use(middleware.NewStructuredLogger(cfg.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", stream.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(cfg.Verifier, CapWalletRead))
		r.Get("/wallets", wallets.ListWallets)
		r.Get("/wallets/{userId}", func(w http.ResponseWriter, req *http.Request) {
			wallets.GetWalletByUserId(w, req, chi.URLParam(req, "userId"))
		})
		r.Get("/wallets/{userId}/ledger", func(w http.ResponseWriter, req *http.Request) {
			ledger.ListLedgerEntries(w, req, chi.URLParam(req, "userId"))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(cfg.Verifier, CapWalletLock))
		r.Post("/locks", locks.CreateLock)
		r.Post("/locks/check-conditions", locks.CheckConditions)
		r.Get("/locks/{lockId}", func(w http.ResponseWriter, req *http.Request) {
			locks.GetLockById(w, req, chi.URLParam(req, "lockId"))
		})
		r.Post("/locks/{lockId}/release", func(w http.ResponseWriter, req *http.Request) {
			locks.ReleaseLock(w, req, chi.URLParam(req, "lockId"))
		})
		r.Post("/locks/{lockId}/conditions", func(w http.ResponseWriter, req *http.Request) {
			locks.SetConditions(w, req, chi.URLParam(req, "lockId"))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(cfg.Verifier, CapDisputeArbitrate))
		r.Post("/disputes", disputes.CreateDispute)
		r.Get("/disputes/{disputeId}", func(w http.ResponseWriter, req *http.Request) {
			disputes.GetDisputeById(w, req, chi.URLParam(req, "disputeId"))
		})
		r.Post("/disputes/{disputeId}/resolve", func(w http.ResponseWriter, req *http.Request) {
			disputes.ResolveDispute(w, req, chi.URLParam(req, "disputeId"))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(cfg.Verifier, CapSettlementProcess))
		r.Post("/settlements", settlements.CreateSettlement)
		r.Post("/settlements/schedule", settlements.ScheduleSettlement)
		r.Get("/settlements/{settlementId}", func(w http.ResponseWriter, req *http.Request) {
			settlements.GetSettlementById(w, req, chi.URLParam(req, "settlementId"))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(cfg.Verifier, CapWithdrawalRequest))
		r.Post("/withdrawals", withdrawals.RequestWithdrawal)
		r.Get("/withdrawals/{withdrawalId}", func(w http.ResponseWriter, req *http.Request) {
			withdrawals.GetWithdrawalById(w, req, chi.URLParam(req, "withdrawalId"))
		})
		r.Post("/withdrawals/{withdrawalId}/process", func(w http.ResponseWriter, req *http.Request) {
			withdrawals.ProcessWithdrawal(w, req, chi.URLParam(req, "withdrawalId"))
		})
	})

	r.Post("/webhooks/funding", webhooks.HandleFunding)
	r.Post("/webhooks/payout", webhooks.HandlePayout)

	return r
}
