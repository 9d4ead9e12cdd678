package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"intake/internal/model"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Insert(ctx context.Context, collection string, rec *model.Record) (string, error) {
	args := m.Called(ctx, collection, rec)
	return args.String(0), args.Error(1)
}

func (m *MockRecordRepository) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockRecordRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
