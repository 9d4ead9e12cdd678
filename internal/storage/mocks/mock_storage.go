package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, localPath, container, key string) error {
	args := m.Called(ctx, localPath, container, key)
	return args.Error(0)
}
