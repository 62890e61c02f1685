package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

// AllConnectionsGetter defines an interface for getting all connection IDs.
type AllConnectionsGetter interface {
	GetAllConnections(ctx context.Context) ([]string, error)
}

// ManagementAPI is the slice of the API Gateway management client the
// publisher needs. Declared here so tests can substitute it.
type ManagementAPI interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// DefaultPublisher fans balance and lock updates out to every registered
// subscriber through the API Gateway management API.
type DefaultPublisher struct {
	registry AllConnectionsGetter
	pruner   ConnectionManager
	client   ManagementAPI
}

// NewPublisher creates a DefaultPublisher against the given API Gateway
// endpoint.
func NewPublisher(registry AllConnectionsGetter, pruner ConnectionManager, apiEndpoint string) (*DefaultPublisher, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})

	return &DefaultPublisher{registry: registry, pruner: pruner, client: client}, nil
}

// Publish sends a message to every subscriber. A failed send never aborts
// the fan-out: gone connections are pruned from the registry, other send
// errors are logged and skipped.
func (p *DefaultPublisher) Publish(ctx context.Context, message Message) error {
	subscribers, err := p.registry.GetAllConnections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscribers: %w", err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, id := range subscribers {
		p.send(ctx, id, payload)
	}
	return nil
}

func (p *DefaultPublisher) send(ctx context.Context, connectionID string, payload []byte) {
	_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connectionID),
		Data:         payload,
	})
	if err == nil {
		return
	}

	var gone *apigwtypes.GoneException
	if errors.As(err, &gone) {
		if err := p.pruner.RemoveConnection(ctx, connectionID); err != nil {
			slog.Error("failed to prune stale subscriber", "connectionId", connectionID, "error", err)
		}
		return
	}
	slog.Error("failed to post to subscriber", "connectionId", connectionID, "error", err)
}
