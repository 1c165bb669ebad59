// Package notifier holds a testify mock of alerts.Notifier.
package notifier

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Notifier is a mock alert sink for testing.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, destination, message string) error {
	args := m.Called(ctx, destination, message)
	return args.Error(0)
}

// NewNotifier creates a mock that asserts its expectations when the test ends.
func NewNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *Notifier {
	m := &Notifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
