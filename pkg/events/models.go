package events

// MessageType defines the type of an event-stream message.
type MessageType string

const (
	// MessageTypeWalletUpdate is for messages that announce a balance change.
	MessageTypeWalletUpdate MessageType = "walletUpdate"

	// MessageTypeLockUpdate is for messages that announce a lock transition.
	MessageTypeLockUpdate MessageType = "lockUpdate"
)

// Message represents a generic event-stream message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// WalletUpdatePayload is the payload for a walletUpdate message.
type WalletUpdatePayload struct {
	WalletID    string `json:"wallet_id"`
	ReferenceID string `json:"reference_id"`
	Change      int64  `json:"change"`
	Available   int64  `json:"available"`
}

// LockUpdatePayload is the payload for a lockUpdate message.
type LockUpdatePayload struct {
	LockID   string `json:"lock_id"`
	WalletID string `json:"wallet_id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
}
