package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"intake/internal/model"
)

type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Submit(ctx context.Context, in model.Submission) model.Outcome {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Outcome)
}
