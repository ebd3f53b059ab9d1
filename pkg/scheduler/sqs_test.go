package scheduler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/invoice-funding-marketplace/pkg/events"
	"github.com/chris/invoice-funding-marketplace/pkg/events/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSchedulePayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := mocks.NewSQSAPI(t)
		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			var payment events.PayerPayment
			if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &payment); err != nil {
				return false
			}
			return payment.InvoiceID == "inv_1" && in.DelaySeconds == 90 && aws.ToString(in.QueueUrl) == "queue"
		})).Return(&sqs.SendMessageOutput{}, nil)

		s := NewSQSScheduler(client, "queue")

		require.NoError(t, s.SchedulePayment(context.Background(), "inv_1", 90*time.Second))
	})

	t.Run("Delay Too Long", func(t *testing.T) {
		client := mocks.NewSQSAPI(t)
		s := NewSQSScheduler(client, "queue")

		err := s.SchedulePayment(context.Background(), "inv_1", time.Hour)

		assert.ErrorIs(t, err, ErrDelayTooLong)
		client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})

	t.Run("Send Failure", func(t *testing.T) {
		client := mocks.NewSQSAPI(t)
		client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, assert.AnError)
		s := NewSQSScheduler(client, "queue")

		err := s.SchedulePayment(context.Background(), "inv_1", 0)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
