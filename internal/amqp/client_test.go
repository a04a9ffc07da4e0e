package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	deadline bool
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	_, ok := ctx.Deadline()
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg, deadline: ok})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestClient(ch *fakeChannel) *Client {
	return &Client{channel: ch, exchangeName: "budget", queueName: "budget_events"}
}

func TestPublishExpenseAdded(t *testing.T) {
	ch := &fakeChannel{}
	c := newTestClient(ch)

	e := core.NewExpense(core.NewDate(2024, 1, 1), core.Food, decimal.RequireFromString("50"), "lunch")
	require.NoError(t, c.PublishExpenseAdded(context.Background(), e))

	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "budget", got.exchange)
	assert.Equal(t, "budget_events", got.key)
	assert.True(t, got.deadline, "publish runs under a timeout")
	assert.Equal(t, TypeExpenseAdded, got.msg.Type)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)

	msg, err := ExpenseAddedMessageFromJSON(got.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, e.ID, msg.ID)
	assert.Equal(t, "2024-01-01", msg.Date)
	assert.Equal(t, "Food", msg.Category)
	assert.Equal(t, "50.00", msg.Amount)
	assert.Equal(t, "lunch", msg.Description)
}

func TestPublishBudgetExceeded(t *testing.T) {
	ch := &fakeChannel{}
	c := newTestClient(ch)

	line := core.BudgetLine{
		Category:   core.Food,
		Limit:      decimal.NewFromInt(40),
		Actual:     decimal.NewFromInt(50),
		Difference: decimal.NewFromInt(-10),
		Exceeded:   true,
	}
	require.NoError(t, c.PublishBudgetExceeded(context.Background(), line))

	require.Len(t, ch.sent, 1)
	assert.Equal(t, TypeBudgetExceeded, ch.sent[0].msg.Type)
	msg, err := BudgetExceededMessageFromJSON(ch.sent[0].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "Food", msg.Category)
	assert.Equal(t, "40.00", msg.Limit)
	assert.Equal(t, "50.00", msg.Actual)
	assert.Equal(t, "-10.00", msg.Difference)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Minute)
}

func TestPublishErrorIsWrapped(t *testing.T) {
	boom := errors.New("channel closed")
	c := newTestClient(&fakeChannel{err: boom})

	e := core.NewExpense(core.NewDate(2024, 1, 1), core.Food, decimal.NewFromInt(1), "")
	err := c.PublishExpenseAdded(context.Background(), e)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), TypeExpenseAdded)
}

func TestCloseClosesChannel(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, newTestClient(ch).Close())
	assert.True(t, ch.closed)
}
