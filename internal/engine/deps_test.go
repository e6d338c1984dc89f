package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/service"
)

type mockStorage struct {
	service.Storage
	mock.Mock
}

func (m *mockStorage) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Property); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStorage) ListProperties(ctx context.Context, ownerID string) ([]model.Property, error) {
	args := m.Called(ctx, ownerID)
	properties, _ := args.Get(0).([]model.Property)
	return properties, args.Error(1)
}

func (m *mockStorage) ListTasks(ctx context.Context, filter service.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *mockStorage) ListCertificates(ctx context.Context, filter service.CertificateFilter) ([]model.Certificate, error) {
	args := m.Called(ctx, filter)
	certificates, _ := args.Get(0).([]model.Certificate)
	return certificates, args.Error(1)
}

func TestLoadPortfolio_StorageErrors(t *testing.T) {
	errDisk := errors.New("disk I/O error")

	tests := []struct {
		setup   func(m *mockStorage)
		name    string
		wantMsg string
	}{
		{
			name: "properties",
			setup: func(m *mockStorage) {
				m.On("ListProperties", mock.Anything, owner).Return(nil, errDisk)
			},
			wantMsg: "failed to list properties",
		},
		{
			name: "tasks",
			setup: func(m *mockStorage) {
				m.On("ListProperties", mock.Anything, owner).Return([]model.Property{}, nil)
				m.On("ListTasks", mock.Anything, service.TaskFilter{OwnerID: owner}).Return(nil, errDisk)
			},
			wantMsg: "failed to list tasks",
		},
		{
			name: "certificates",
			setup: func(m *mockStorage) {
				m.On("ListProperties", mock.Anything, owner).Return([]model.Property{}, nil)
				m.On("ListTasks", mock.Anything, mock.Anything).Return([]model.Task{}, nil)
				m.On("ListCertificates", mock.Anything, service.CertificateFilter{OwnerID: owner}).Return(nil, errDisk)
			},
			wantMsg: "failed to list certificates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStorage{}
			tt.setup(store)
			e := New(store, regulatory.MustDefault())

			_, err := e.Report(context.Background(), owner, now, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, errDisk)
			assert.Contains(t, err.Error(), tt.wantMsg)
			store.AssertExpectations(t)
		})
	}
}

func TestCompliance_UnknownPropertySkipsTaskQuery(t *testing.T) {
	store := &mockStorage{}
	store.On("GetProperty", mock.Anything, "missing").Return(nil, common.ErrNotFound)
	e := New(store, regulatory.MustDefault())

	id := "missing"
	_, err := e.Compliance(context.Background(), owner, &id, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	store.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
}

func TestCompliance_ForeignPropertySkipsTaskQuery(t *testing.T) {
	store := &mockStorage{}
	store.On("GetProperty", mock.Anything, "p-other").Return(&model.Property{ID: "p-other", OwnerID: "owner-2"}, nil)
	e := New(store, regulatory.MustDefault())

	id := "p-other"
	_, err := e.Compliance(context.Background(), owner, &id, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	store.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
}
