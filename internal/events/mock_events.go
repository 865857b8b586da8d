package events

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPublisher is a mock implementation of Publisher using testify/mock.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, u Usage) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}
