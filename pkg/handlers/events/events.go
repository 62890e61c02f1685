package events

import (
	"context"
	"log/slog"
	"net/http"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tradeweave/wallet-ledger/pkg/events"
)

// Handler registers and unregisters event-stream subscribers. Behind API
// Gateway the connect/disconnect routes call the lambda entrypoints; the
// local development server exposes the same stream as a plain WebSocket.
type Handler struct {
	connManager events.ConnectionManager
}

// NewHandler creates a new Handler.
func NewHandler(connManager events.ConnectionManager) *Handler {
	return &Handler{connManager: connManager}
}

// HandleConnect registers a new subscriber.
func (h *Handler) HandleConnect(ctx context.Context, request lambdaevents.APIGatewayWebsocketProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
	id := request.RequestContext.ConnectionID
	if err := h.connManager.AddConnection(ctx, id); err != nil {
		slog.Error("failed to register subscriber", "connectionId", id, "error", err)
		return lambdaevents.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	slog.Info("subscriber connected", "connectionId", id)
	return lambdaevents.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDisconnect removes a subscriber.
func (h *Handler) HandleDisconnect(ctx context.Context, request lambdaevents.APIGatewayWebsocketProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
	id := request.RequestContext.ConnectionID
	if err := h.connManager.RemoveConnection(ctx, id); err != nil {
		slog.Error("failed to remove subscriber", "connectionId", id, "error", err)
		return lambdaevents.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	slog.Info("subscriber disconnected", "connectionId", id)
	return lambdaevents.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDefault acknowledges inbound messages. The stream is one-way:
// subscribers receive wallet and lock updates and are not expected to send
// anything.
func (h *Handler) HandleDefault(_ context.Context, request lambdaevents.APIGatewayWebsocketProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
	slog.Info("ignoring inbound stream message", "connectionId", request.RequestContext.ConnectionID, "body", request.Body)
	return lambdaevents.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// upgrader accepts any origin; the local endpoint is development-only.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeHTTP serves the event stream on the local development server. Each
// connection gets a synthetic connection ID in the same registry the API
// Gateway publisher fans out to.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	id := uuid.New().String()
	if err := h.connManager.AddConnection(ctx, id); err != nil {
		slog.Error("failed to register local subscriber", "connectionId", id, "error", err)
		return
	}
	slog.Info("local subscriber connected", "connectionId", id)

	defer func() {
		if err := h.connManager.RemoveConnection(ctx, id); err != nil {
			slog.Error("failed to remove local subscriber", "connectionId", id, "error", err)
		}
		slog.Info("local subscriber disconnected", "connectionId", id)
	}()

	// Drain reads only to notice the peer closing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected close error", "connectionId", id, "error", err)
			}
			return
		}
	}
}
