package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// GetWallet retrieves a user's wallet from DynamoDB by their user ID.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.Tables.Wallets),
		Key:       walletKey(userID),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// EnsureWallet returns the user's wallet, creating an empty one on the
// user's first monetary event. Wallets are never deleted.
func (s *Store) EnsureWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet := &models.Wallet{
		UserID:    userID,
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
	item, err := attributevalue.MarshalMap(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Wallets),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if !errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("failed to create wallet in DynamoDB: %w", err)
		}
		// The wallet already exists; fall through to the read.
		return s.GetWallet(ctx, userID)
	}

	return wallet, nil
}

// ListWallets retrieves all wallets from DynamoDB.
func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.Tables.Wallets),
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallets table: %w", err)
	}

	var wallets []models.Wallet
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &wallets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
	}

	return wallets, nil
}
