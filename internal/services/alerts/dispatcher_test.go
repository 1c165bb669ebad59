package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vadiminshakov/martifolio/internal/domain"
	notifierMock "github.com/vadiminshakov/martifolio/mocks/notifier"
	"go.uber.org/zap"
)

func TestDispatcher_SendsOncePerSession(t *testing.T) {
	notifier := notifierMock.NewNotifier(t)
	notifier.On("Notify", mock.Anything, "chat-1", "BTC hit High Sell 1").Return(nil).Once()
	notifier.On("Notify", mock.Anything, "chat-1", "ETH hit High Sell 1").Return(nil).Once()

	d := NewDispatcher(notifier, "chat-1", zap.NewNop())
	alerts := []domain.Alert{
		{Asset: "BTC", Message: "BTC hit High Sell 1"},
		{Asset: "ETH", Message: "ETH hit High Sell 1"},
	}

	first := d.Dispatch(context.Background(), alerts)
	second := d.Dispatch(context.Background(), alerts)

	assert.Equal(t, []string{"BTC hit High Sell 1", "ETH hit High Sell 1"}, first)
	assert.Empty(t, second)
}

func TestDispatcher_FailureDoesNotAbort(t *testing.T) {
	notifier := notifierMock.NewNotifier(t)
	notifier.On("Notify", mock.Anything, "chat", "first").Return(errors.New("telegram down")).Twice()
	notifier.On("Notify", mock.Anything, "chat", "second").Return(nil).Once()

	d := NewDispatcher(notifier, "chat", zap.NewNop())
	alerts := []domain.Alert{{Message: "first"}, {Message: "second"}}

	assert.Equal(t, []string{"second"}, d.Dispatch(context.Background(), alerts))
	// the failed message is retried, the delivered one is not
	assert.Empty(t, d.Dispatch(context.Background(), alerts))
}

func TestDispatcher_Reset(t *testing.T) {
	notifier := notifierMock.NewNotifier(t)
	notifier.On("Notify", mock.Anything, "chat", "msg").Return(nil).Twice()

	d := NewDispatcher(notifier, "chat", zap.NewNop())
	alerts := []domain.Alert{{Message: "msg"}}

	d.Dispatch(context.Background(), alerts)
	d.Reset()
	assert.Equal(t, []string{"msg"}, d.Dispatch(context.Background(), alerts))
}
