package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client            DynamoDBAPI
	InvoicesTableName string
	OffersTableName   string
	EscrowTableName   string
	LedgerTableName   string
}

// New creates a new Store.
func New(client DynamoDBAPI, invoicesTable, offersTable, escrowTable, ledgerTable string) *Store {
	return &Store{
		Client:            client,
		InvoicesTableName: invoicesTable,
		OffersTableName:   offersTable,
		EscrowTableName:   escrowTable,
		LedgerTableName:   ledgerTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// isConditionFailure reports whether err is a failed condition expression, either on a
// single-item write or on any item of a cancelled transaction.
func isConditionFailure(err error) bool {
	var condCheckFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condCheckFailed) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}
