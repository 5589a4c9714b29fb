package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studyhub/internal/model"
	"studyhub/internal/service"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, req service.UploadRequest) (*model.Document, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockUploadService) FileURL(ctx context.Context, documentID string) (string, error) {
	args := m.Called(ctx, documentID)
	return args.String(0), args.Error(1)
}

func (m *MockUploadService) UploadToFolder(ctx context.Context, folderID string, reqs []service.UploadRequest) ([]model.Document, error) {
	args := m.Called(ctx, folderID, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}
