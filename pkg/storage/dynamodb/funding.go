package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

const funderIndex = "funder_id-index"

func invoiceKey(invoiceID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: invoiceID},
	}
}

func byInvoiceKey(invoiceID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"invoice_id": &types.AttributeValueMemberS{Value: invoiceID},
	}
}

// statusTransition builds the conditional invoice update shared by all funding writes.
func (s *Store) statusTransition(invoiceID string, from, to models.InvoiceStatus, now time.Time) *types.Update {
	return &types.Update{
		TableName:           aws.String(s.InvoicesTableName),
		Key:                 invoiceKey(invoiceID),
		UpdateExpression:    aws.String("SET #status = :to_status, updated_at = :now"),
		ConditionExpression: aws.String("#status = :from_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to_status":   &types.AttributeValueMemberS{Value: string(to)},
			":from_status": &types.AttributeValueMemberS{Value: string(from)},
			":now":         &types.AttributeValueMemberS{Value: formatSortable(now)},
		},
	}
}

// GetFundingOffer retrieves the active funding offer of an invoice.
func (s *Store) GetFundingOffer(ctx context.Context, invoiceID string) (*models.FundingOffer, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.OffersTableName),
		Key:       byInvoiceKey(invoiceID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get funding offer from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("funding offer for invoice %s: %w", invoiceID, storage.ErrNotFound)
	}

	var rec offerRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal funding offer: %w", err)
	}
	return rec.toModel()
}

// GetEscrow retrieves the escrow record of an invoice.
func (s *Store) GetEscrow(ctx context.Context, invoiceID string) (*models.EscrowRecord, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.EscrowTableName),
		Key:       byInvoiceKey(invoiceID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get escrow from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("escrow for invoice %s: %w", invoiceID, storage.ErrNotFound)
	}

	var rec escrowRecord
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal escrow: %w", err)
	}
	return rec.toModel()
}

func (s *Store) ListFundingOffersByFunder(ctx context.Context, funderID string) ([]models.FundingOffer, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.OffersTableName),
		IndexName:              aws.String(funderIndex),
		KeyConditionExpression: aws.String("funder_id = :funderID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":funderID": &types.AttributeValueMemberS{Value: funderID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for funding offers by funder ID: %w", err)
	}

	var recs []offerRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &recs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal funding offers: %w", err)
	}

	offers := make([]models.FundingOffer, 0, len(recs))
	for i := range recs {
		o, err := recs[i].toModel()
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, nil
}

// ClaimFunding atomically moves the invoice to FUNDING and writes the offer and escrow record.
// Losing the race to another funder cancels the whole transaction.
func (s *Store) ClaimFunding(ctx context.Context, offer *models.FundingOffer, escrow *models.EscrowRecord) error {
	offerAV, err := attributevalue.MarshalMap(newOfferRecord(offer))
	if err != nil {
		return fmt.Errorf("failed to marshal funding offer: %w", err)
	}
	escrowAV, err := attributevalue.MarshalMap(newEscrowRecord(escrow))
	if err != nil {
		return fmt.Errorf("failed to marshal escrow: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Claim the invoice.
				Update: s.statusTransition(offer.InvoiceID, models.TOKENIZED, models.FUNDING, time.Now()),
			},
			{
				// Operation 2: Create the offer.
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                offerAV,
					ConditionExpression: aws.String("attribute_not_exists(invoice_id)"),
				},
			},
			{
				// Operation 3: Open the escrow.
				Put: &types.Put{
					TableName:           aws.String(s.EscrowTableName),
					Item:                escrowAV,
					ConditionExpression: aws.String("attribute_not_exists(invoice_id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if isConditionFailure(err) {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to execute funding claim transaction: %w", err)
	}
	return nil
}

// ConfirmFunding moves the invoice from FUNDING to FUNDED and records the anchored transaction.
func (s *Store) ConfirmFunding(ctx context.Context, invoiceID, offerID string, anchor *models.ChainAnchor) error {
	anchorAV, err := attributevalue.Marshal(newAnchorRecord(anchor))
	if err != nil {
		return fmt.Errorf("failed to marshal funding anchor: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: s.statusTransition(invoiceID, models.FUNDING, models.FUNDED, time.Now()),
			},
			{
				Update: &types.Update{
					TableName:           aws.String(s.OffersTableName),
					Key:                 byInvoiceKey(invoiceID),
					UpdateExpression:    aws.String("SET tx_hash = :tx_hash, anchor = :anchor"),
					ConditionExpression: aws.String("id = :offer_id"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":tx_hash":  &types.AttributeValueMemberS{Value: anchor.TxHash},
						":anchor":   anchorAV,
						":offer_id": &types.AttributeValueMemberS{Value: offerID},
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if isConditionFailure(err) {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to execute funding confirmation transaction: %w", err)
	}
	return nil
}

// RollbackFunding returns the invoice to TOKENIZED and removes the unconfirmed offer and escrow.
func (s *Store) RollbackFunding(ctx context.Context, invoiceID, offerID string) error {
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: s.statusTransition(invoiceID, models.FUNDING, models.TOKENIZED, time.Now()),
			},
			{
				Delete: &types.Delete{
					TableName:           aws.String(s.OffersTableName),
					Key:                 byInvoiceKey(invoiceID),
					ConditionExpression: aws.String("id = :offer_id"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":offer_id": &types.AttributeValueMemberS{Value: offerID},
					},
				},
			},
			{
				Delete: &types.Delete{
					TableName:           aws.String(s.EscrowTableName),
					Key:                 byInvoiceKey(invoiceID),
					ConditionExpression: aws.String("attribute_not_exists(released_at)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if isConditionFailure(err) {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to execute funding rollback transaction: %w", err)
	}
	return nil
}
