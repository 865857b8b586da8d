package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock implementation of Generator using testify/mock.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, system, user string, opts GenerateOptions) (string, error) {
	args := m.Called(ctx, system, user, opts)
	return args.String(0), args.Error(1)
}

// MockModerator is a mock implementation of Moderator using testify/mock.
type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) Classify(ctx context.Context, text string) (Classification, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(Classification), args.Error(1)
}
