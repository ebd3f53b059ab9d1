package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
)

const ledgerGSI = "gsi1pk-timestamp-index"

func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: ledgerPartition},
		},
		ScanIndexForward: aws.Bool(false), // Sort by timestamp in descending order
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
	}

	var recs []ledgerRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &recs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	entries := make([]models.LedgerEntry, 0, len(recs))
	for i := range recs {
		e, err := recs[i].toModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}
