package storage

// ApiStore defines the complete set of operations needed by the HTTP API.
// It composes the granular interfaces to provide a clear boundary for the
// API's data access.
type ApiStore interface {
	WalletStore
	LedgerStore
	LockStore
	DisputeStore
	SettlementStore
	WithdrawalStore
}
