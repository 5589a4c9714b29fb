package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"studyhub/internal/analytics"
	"studyhub/internal/model"
	"studyhub/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetDocuments(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockStore) AddDocument(ctx context.Context, nd store.NewDocument) (*model.Document, error) {
	args := m.Called(ctx, nd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockStore) IncrementDownload(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *MockStore) GetDownloadEvents(ctx context.Context) ([]model.DownloadEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DownloadEvent), args.Error(1)
}

func (m *MockStore) GetFolders(ctx context.Context) ([]model.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockStore) GetFolder(ctx context.Context, folderID string) (*model.Folder, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockStore) AddFolder(ctx context.Context, nf store.NewFolder) (*model.Folder, error) {
	args := m.Called(ctx, nf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockStore) DeleteFolder(ctx context.Context, folderID string) error {
	args := m.Called(ctx, folderID)
	return args.Error(0)
}

func (m *MockStore) GetFolderDocuments(ctx context.Context, folderID string) ([]model.Document, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockStore) AddDocumentsToFolder(ctx context.Context, folderID string, nds []store.NewDocument) ([]model.Document, error) {
	args := m.Called(ctx, folderID, nds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockStore) GetComments(ctx context.Context, documentID string) ([]model.Comment, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockStore) AddComment(ctx context.Context, documentID, author, content string) (*model.Comment, error) {
	args := m.Called(ctx, documentID, author, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockStore) DeleteComment(ctx context.Context, commentID string) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

func (m *MockStore) GetCoops(ctx context.Context) ([]model.Coop, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coop), args.Error(1)
}

func (m *MockStore) AddCoop(ctx context.Context, nc store.NewCoop) (*model.Coop, error) {
	args := m.Called(ctx, nc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coop), args.Error(1)
}

func (m *MockStore) UpdateCoop(ctx context.Context, coopID string, upd store.CoopUpdate) (*model.Coop, error) {
	args := m.Called(ctx, coopID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coop), args.Error(1)
}

func (m *MockStore) DeleteCoop(ctx context.Context, coopID string) error {
	args := m.Called(ctx, coopID)
	return args.Error(0)
}

func (m *MockStore) GetAnalytics(ctx context.Context, tr analytics.TimeRange) (*analytics.Analytics, error) {
	args := m.Called(ctx, tr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Analytics), args.Error(1)
}
