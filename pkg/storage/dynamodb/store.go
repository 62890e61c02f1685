package dynamodb

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tradeweave/wallet-ledger/pkg/models"
	"github.com/tradeweave/wallet-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses. Declared
// here so tests can substitute a mock.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables names every table the store touches.
type Tables struct {
	Wallets     string
	Ledger      string
	Locks       string
	Disputes    string
	Settlements string
	Withdrawals string
	Funding     string
	Connections string
}

// Store implements the storage interfaces using AWS DynamoDB. Every balance
// mutation runs as a TransactWriteItems unit conditioned on the wallet's
// version counter, which serializes writers per wallet.
type Store struct {
	Client DynamoDBAPI
	Tables Tables
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{Client: client, Tables: tables}
}

// TablesFromEnv reads the table names from the environment. Every table must
// be configured.
func TablesFromEnv() (Tables, error) {
	tables := Tables{
		Wallets:     os.Getenv("DYNAMODB_WALLETS_TABLE_NAME"),
		Ledger:      os.Getenv("DYNAMODB_LEDGER_TABLE_NAME"),
		Locks:       os.Getenv("DYNAMODB_LOCKS_TABLE_NAME"),
		Disputes:    os.Getenv("DYNAMODB_DISPUTES_TABLE_NAME"),
		Settlements: os.Getenv("DYNAMODB_SETTLEMENTS_TABLE_NAME"),
		Withdrawals: os.Getenv("DYNAMODB_WITHDRAWALS_TABLE_NAME"),
		Funding:     os.Getenv("DYNAMODB_FUNDING_TABLE_NAME"),
		Connections: os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	}
	for _, name := range []string{
		tables.Wallets, tables.Ledger, tables.Locks, tables.Disputes,
		tables.Settlements, tables.Withdrawals, tables.Funding, tables.Connections,
	} {
		if name == "" {
			return Tables{}, errors.New("one or more DynamoDB table name environment variables are not set")
		}
	}
	return tables, nil
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// maxCASRetries bounds how often a mutation is retried after losing a
// version race against a concurrent writer on the same wallet.
const maxCASRetries = 3

// errVersionConflict signals that every retry lost the version race.
var errVersionConflict = errors.New("wallet version conflict, concurrent update")

// conditionFailedAt reports whether a transact write was canceled because the
// item at idx failed its condition check.
func conditionFailedAt(err error, idx int) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	if idx < 0 || idx >= len(tce.CancellationReasons) {
		return false
	}
	code := tce.CancellationReasons[idx].Code
	return code != nil && *code == "ConditionalCheckFailed"
}

// isConditionalCheckFailed reports whether a single-item write was rejected
// by its condition expression.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// transactHadConditionFailure reports whether any item in a canceled
// transact write failed its condition check, regardless of position.
func transactHadConditionFailure(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, reason := range tce.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// num builds a DynamoDB number attribute from an int64.
func num(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

// str builds a DynamoDB string attribute.
func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// walletKey builds the primary key for a wallet row.
func walletKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberS{Value: userID},
	}
}

// walletMutation builds the conditional update that writes the wallet's new
// bucket values. The version equality condition is the single-writer
// discipline: the new values were computed from the snapshot at :version, so
// the write only lands if no other writer got there first.
func (s *Store) walletMutation(w *models.Wallet, available, locked, negative int64) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.Tables.Wallets),
			Key:                 walletKey(w.UserID),
			UpdateExpression:    aws.String("SET available = :available, locked = :locked, negative = :negative, version = version + :inc"),
			ConditionExpression: aws.String("version = :version"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":available": num(available),
				":locked":    num(locked),
				":negative":  num(negative),
				":version":   num(w.Version),
				":inc":       num(1),
			},
		},
	}
}

// creditBuckets applies a credit to a wallet snapshot: outstanding debt is
// paid down before the remainder lands in available.
func creditBuckets(w *models.Wallet, amount int64) (available, negative int64) {
	payDown := amount
	if payDown > w.Negative {
		payDown = w.Negative
	}
	return w.Available + amount - payDown, w.Negative - payDown
}
