package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

const statusIndex = "status-updated_at-index"

// CreateInvoice stores a new invoice. The write fails if the ID is already taken.
func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	slog.Log(ctx, slog.LevelDebug, "creating invoice", "invoice_id", inv.ID)

	item, err := attributevalue.MarshalMap(newInvoiceRecord(inv))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.InvoicesTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, storage.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to put invoice: %w", err)
	}

	return inv, nil
}

// GetInvoice retrieves an invoice from DynamoDB by its ID.
func (s *Store) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.InvoicesTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: invoiceID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, storage.ErrNotFound)
	}

	var rec invoiceRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice: %w", err)
	}
	return rec.toModel()
}

// ListInvoicesByStatus queries the status index, following pagination to the end.
func (s *Store) ListInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	return s.queryInvoices(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.InvoicesTableName),
		IndexName:              aws.String(statusIndex),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
}

// ListStuckFundings finds invoices whose funding claim has not been confirmed or rolled back within maxAge.
func (s *Store) ListStuckFundings(ctx context.Context, maxAge time.Duration) ([]models.Invoice, error) {
	cutoff := formatSortable(time.Now().Add(-maxAge))

	return s.queryInvoices(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.InvoicesTableName),
		IndexName:              aws.String(statusIndex),
		KeyConditionExpression: aws.String("#status = :status AND updated_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.FUNDING)},
			":cutoff": &types.AttributeValueMemberS{Value: cutoff},
		},
	})
}

func (s *Store) queryInvoices(ctx context.Context, input *dynamodb.QueryInput) ([]models.Invoice, error) {
	invoices := make([]models.Invoice, 0)
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query invoices: %w", err)
		}

		var recs []invoiceRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &recs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invoices: %w", err)
		}
		for i := range recs {
			inv, err := recs[i].toModel()
			if err != nil {
				return nil, err
			}
			invoices = append(invoices, *inv)
		}

		if len(result.LastEvaluatedKey) == 0 {
			return invoices, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// MarkTokenized attaches the tokenization and moves the invoice from PENDING to TOKENIZED.
func (s *Store) MarkTokenized(ctx context.Context, invoiceID string, t *models.Tokenization) (*models.Invoice, error) {
	tokAV, err := attributevalue.Marshal(newTokenizationRecord(t))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tokenization: %w", err)
	}

	result, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.InvoicesTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: invoiceID},
		},
		UpdateExpression:    aws.String("SET #status = :tokenized_status, tokenization = :tokenization, updated_at = :now"),
		ConditionExpression: aws.String("#status = :pending_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tokenized_status": &types.AttributeValueMemberS{Value: string(models.TOKENIZED)},
			":pending_status":   &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":tokenization":     tokAV,
			":now":              &types.AttributeValueMemberS{Value: formatSortable(time.Now())},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, storage.ErrStatusConflict
		}
		return nil, fmt.Errorf("failed to update invoice status to TOKENIZED: %w", err)
	}

	var rec invoiceRecord
	if err := attributevalue.UnmarshalMap(result.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokenized invoice: %w", err)
	}
	return rec.toModel()
}
