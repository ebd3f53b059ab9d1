package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
)

// SettleInvoice completes a funded invoice in one transaction: the status moves to COMPLETED,
// the escrow is released with the payout, and the ledger entries are written.
// A retried settlement fails the status condition and is reported as ErrStatusConflict.
func (s *Store) SettleInvoice(ctx context.Context, st *models.Settlement) error {
	releasedAtAV, err := attributevalue.Marshal(st.SettledAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal release timestamp: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Complete the invoice.
			Update: s.statusTransition(st.InvoiceID, models.FUNDED, models.COMPLETED, st.SettledAt),
		},
		{
			// Operation 2: Release the escrow.
			Update: &types.Update{
				TableName:           aws.String(s.EscrowTableName),
				Key:                 byInvoiceKey(st.InvoiceID),
				UpdateExpression:    aws.String("SET payout_amount = :payout, released_at = :released_at"),
				ConditionExpression: aws.String("id = :escrow_id AND attribute_not_exists(released_at)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":payout":      &types.AttributeValueMemberS{Value: st.PayoutAmount.StringFixed(2)},
					":released_at": releasedAtAV,
					":escrow_id":   &types.AttributeValueMemberS{Value: st.EscrowID},
				},
			},
		},
	}

	// Remaining operations: one put per ledger entry.
	for i := range st.Entries {
		entryAV, err := attributevalue.MarshalMap(newLedgerRecord(&st.Entries[i]))
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entry: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                entryAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		})
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if isConditionFailure(err) {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to execute settlement transaction: %w", err)
	}
	return nil
}
