package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/invoice-funding-marketplace/pkg/id"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/chris/invoice-funding-marketplace/pkg/storage"
	"github.com/chris/invoice-funding-marketplace/pkg/storage/dynamodb/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(client DynamoDBAPI) *Store {
	return New(client, "invoices", "offers", "escrow", "ledger")
}

func sampleInvoice(status models.InvoiceStatus) *models.Invoice {
	return &models.Invoice{
		ID:                 id.NewInvoiceID(),
		Provider:           models.Party{ID: "prov-1", Name: "Clinic"},
		Patient:            &models.Party{ID: "pat-1", Name: "Jane"},
		ServiceDescription: "MRI",
		Amount:             decimal.RequireFromString("350.00"),
		Currency:           "USD",
		IssueDate:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:            time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:             status,
		CreatedAt:          fixedNow,
		UpdatedAt:          fixedNow,
	}
}

func sampleTokenization() *models.Tokenization {
	rate := decimal.RequireFromString("5")
	days := 30
	return &models.Tokenization{
		TokenID:     id.NewTokenID(),
		ContentHash: "abc123",
		TokenizedAt: fixedNow,
		Anchor: models.ChainAnchor{
			TxHash:      "0xfeed",
			BlockNumber: 7,
			Timestamp:   fixedNow,
			ContentHash: "abc123",
		},
		Params: models.FundingParams{
			MinFundingAmount:  decimal.RequireFromString("300"),
			InterestRatePct:   &rate,
			FundingPeriodDays: &days,
		},
	}
}

func marshalRecord(t *testing.T, rec interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(rec)
	require.NoError(t, err)
	return av
}

func conditionCancelled(codes ...string) error {
	reasons := make([]types.CancellationReason, 0, len(codes))
	for _, c := range codes {
		reasons = append(reasons, types.CancellationReason{Code: aws.String(c)})
	}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func TestCreateInvoice(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)
		inv := sampleInvoice(models.PENDING)

		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			amount := in.Item["amount"].(*types.AttributeValueMemberS).Value
			return *in.TableName == "invoices" &&
				*in.ConditionExpression == "attribute_not_exists(id)" &&
				amount == "350"
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		result, err := store.CreateInvoice(context.Background(), inv)

		assert.NoError(t, err)
		assert.Equal(t, inv, result)
	})

	t.Run("Duplicate ID", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		_, err := store.CreateInvoice(context.Background(), sampleInvoice(models.PENDING))

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("Put Fails", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

		_, err := store.CreateInvoice(context.Background(), sampleInvoice(models.PENDING))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to put invoice")
	})
}

func TestGetInvoice(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)
		inv := sampleInvoice(models.TOKENIZED)
		inv.Tokenization = sampleTokenization()

		mockClient.On("GetItem", mock.Anything, mock.Anything).
			Return(&dynamodb.GetItemOutput{Item: marshalRecord(t, newInvoiceRecord(inv))}, nil).Once()

		result, err := store.GetInvoice(context.Background(), inv.ID)

		require.NoError(t, err)
		assert.Equal(t, inv.ID, result.ID)
		assert.True(t, inv.Amount.Equal(result.Amount))
		assert.Equal(t, models.TOKENIZED, result.Status)
		assert.Equal(t, inv.DueDate, result.DueDate)
		assert.True(t, result.UpdatedAt.Equal(fixedNow))
		require.NotNil(t, result.Tokenization)
		assert.Equal(t, "0xfeed", result.Tokenization.Anchor.TxHash)
		assert.Equal(t, 30, *result.Tokenization.Params.FundingPeriodDays)
		assert.True(t, decimal.NewFromInt(5).Equal(*result.Tokenization.Params.InterestRatePct))
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := store.GetInvoice(context.Background(), "inv_missing")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DynamoDB Error", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("dynamodb error")).Once()

		_, err := store.GetInvoice(context.Background(), "inv_x")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestListStuckFundings(t *testing.T) {
	t.Run("Follows Pagination", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)
		first := sampleInvoice(models.FUNDING)
		second := sampleInvoice(models.FUNDING)
		lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: first.ID}}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == statusIndex && in.ExclusiveStartKey == nil
		})).Return(&dynamodb.QueryOutput{
			Items:            []map[string]types.AttributeValue{marshalRecord(t, newInvoiceRecord(first))},
			LastEvaluatedKey: lastKey,
		}, nil).Once()
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalRecord(t, newInvoiceRecord(second))},
		}, nil).Once()

		result, err := store.ListStuckFundings(context.Background(), 15*time.Minute)

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, first.ID, result[0].ID)
		assert.Equal(t, second.ID, result[1].ID)
	})

	t.Run("Query Fails", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed")).Once()

		_, err := store.ListStuckFundings(context.Background(), time.Minute)

		assert.Error(t, err)
	})
}

func TestMarkTokenized(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)
		inv := sampleInvoice(models.TOKENIZED)
		inv.Tokenization = sampleTokenization()

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			pending := in.ExpressionAttributeValues[":pending_status"].(*types.AttributeValueMemberS).Value
			return *in.ConditionExpression == "#status = :pending_status" && pending == "pending"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: marshalRecord(t, newInvoiceRecord(inv))}, nil).Once()

		result, err := store.MarkTokenized(context.Background(), inv.ID, inv.Tokenization)

		require.NoError(t, err)
		assert.Equal(t, models.TOKENIZED, result.Status)
		assert.Equal(t, inv.Tokenization.TokenID, result.Tokenization.TokenID)
	})

	t.Run("Not Pending", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		_, err := store.MarkTokenized(context.Background(), "inv_x", sampleTokenization())

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})
}

func TestClaimFunding(t *testing.T) {
	inv := sampleInvoice(models.TOKENIZED)
	offer := &models.FundingOffer{
		ID: id.NewFundingID(), InvoiceID: inv.ID, FunderID: "funder-1",
		Amount: decimal.RequireFromString("300.00"), Currency: "USD", OfferedAt: fixedNow,
	}
	escrow := &models.EscrowRecord{
		ID: id.NewEscrowID(), InvoiceID: inv.ID, FunderID: "funder-1",
		HeldAmount: offer.Amount, Currency: "USD", ReleaseCondition: models.PayerSettlesInvoice, CreatedAt: fixedNow,
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			update := in.TransactItems[0].Update
			from := update.ExpressionAttributeValues[":from_status"].(*types.AttributeValueMemberS).Value
			to := update.ExpressionAttributeValues[":to_status"].(*types.AttributeValueMemberS).Value
			return from == "tokenized" && to == "funding" &&
				*in.TransactItems[1].Put.TableName == "offers" &&
				*in.TransactItems[2].Put.TableName == "escrow"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		err := store.ClaimFunding(context.Background(), offer, escrow)

		assert.NoError(t, err)
	})

	t.Run("Lost Race", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, conditionCancelled("ConditionalCheckFailed", "None", "None")).Once()

		err := store.ClaimFunding(context.Background(), offer, escrow)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})

	t.Run("Transaction Conflict Is Not A Lost Race", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, conditionCancelled("TransactionConflict", "None", "None")).Once()

		err := store.ClaimFunding(context.Background(), offer, escrow)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrStatusConflict)
		assert.Contains(t, err.Error(), "failed to execute funding claim transaction")
	})
}

func TestConfirmAndRollbackFunding(t *testing.T) {
	anchor := &models.ChainAnchor{TxHash: "0xabc", BlockNumber: 9, Timestamp: fixedNow, ContentHash: "h"}

	t.Run("Confirm Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			to := in.TransactItems[0].Update.ExpressionAttributeValues[":to_status"].(*types.AttributeValueMemberS).Value
			tx := in.TransactItems[1].Update.ExpressionAttributeValues[":tx_hash"].(*types.AttributeValueMemberS).Value
			return to == "funded" && tx == "0xabc"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		assert.NoError(t, store.ConfirmFunding(context.Background(), "inv_1", "fund_1", anchor))
	})

	t.Run("Confirm Conflict", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, conditionCancelled("ConditionalCheckFailed", "None")).Once()

		err := store.ConfirmFunding(context.Background(), "inv_1", "fund_1", anchor)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})

	t.Run("Rollback Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			to := in.TransactItems[0].Update.ExpressionAttributeValues[":to_status"].(*types.AttributeValueMemberS).Value
			return to == "tokenized" && in.TransactItems[1].Delete != nil && in.TransactItems[2].Delete != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		assert.NoError(t, store.RollbackFunding(context.Background(), "inv_1", "fund_1"))
	})
}

func TestSettleInvoice(t *testing.T) {
	settlement := &models.Settlement{
		InvoiceID:    "inv_1",
		EscrowID:     "esc_1",
		PayoutAmount: decimal.RequireFromString("301.23"),
		SettledAt:    fixedNow,
		Entries: []models.LedgerEntry{
			{EntryID: "le_1", InvoiceID: "inv_1", AccountID: "payer", Debit: decimal.RequireFromString("301.23"), Currency: "USD", Timestamp: fixedNow},
			{EntryID: "le_2", InvoiceID: "inv_1", AccountID: "funder-1", Credit: decimal.RequireFromString("301.23"), Currency: "USD", Timestamp: fixedNow},
		},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 4 {
				return false
			}
			payout := in.TransactItems[1].Update.ExpressionAttributeValues[":payout"].(*types.AttributeValueMemberS).Value
			gsi := in.TransactItems[2].Put.Item["gsi1pk"].(*types.AttributeValueMemberS).Value
			return payout == "301.23" && gsi == ledgerPartition
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		assert.NoError(t, store.SettleInvoice(context.Background(), settlement))
	})

	t.Run("Already Settled", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, conditionCancelled("ConditionalCheckFailed", "ConditionalCheckFailed", "None", "None")).Once()

		err := store.SettleInvoice(context.Background(), settlement)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed")).Once()

		err := store.SettleInvoice(context.Background(), settlement)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute settlement transaction")
	})
}

func TestListLedgerEntries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)
		entry := models.LedgerEntry{EntryID: "le_1", InvoiceID: "inv_1", AccountID: "payer", Debit: decimal.RequireFromString("10.50"), Credit: decimal.Zero, Currency: "USD", Timestamp: fixedNow}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == ledgerGSI && *in.Limit == 10 && !*in.ScanIndexForward
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalRecord(t, newLedgerRecord(&entry))},
		}, nil).Once()

		entries, err := store.ListLedgerEntries(context.Background(), 10)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Debit.Equal(decimal.RequireFromString("10.5")))
	})
}

func TestListFundingOffersByFunder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)
		offer := &models.FundingOffer{ID: "fund_1", InvoiceID: "inv_1", FunderID: "funder-1", Amount: decimal.RequireFromString("300"), Currency: "USD", OfferedAt: fixedNow, TxHash: "0x1"}

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == funderIndex
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{marshalRecord(t, newOfferRecord(offer))},
		}, nil).Once()

		offers, err := store.ListFundingOffersByFunder(context.Background(), "funder-1")

		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, "0x1", offers[0].TxHash)
	})

	t.Run("Query Fails", func(t *testing.T) {
		mockClient := mocks.NewDynamoDBAPI(t)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed")).Once()

		_, err := store.ListFundingOffersByFunder(context.Background(), "funder-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query for funding offers by funder ID")
	})
}
