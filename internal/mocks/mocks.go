package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/financaspro/finance-core/internal/domain/entity"
	domainsvc "github.com/financaspro/finance-core/internal/domain/service"
)

// MockFinanceAPI mocks the FinanceAPI interface
type MockFinanceAPI struct {
	mock.Mock
}

func (m *MockFinanceAPI) Login(ctx context.Context, username, password string) (*domainsvc.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsvc.LoginResult), args.Error(1)
}

func (m *MockFinanceAPI) Register(ctx context.Context, reg domainsvc.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockFinanceAPI) VerifyToken(ctx context.Context, token string) (*domainsvc.VerifyResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsvc.VerifyResult), args.Error(1)
}

func (m *MockFinanceAPI) ListTransactions(ctx context.Context, token string) ([]entity.Transaction, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Transaction), args.Error(1)
}

func (m *MockFinanceAPI) CreateTransaction(ctx context.Context, token string, draft entity.TransactionDraft) (*entity.Transaction, error) {
	args := m.Called(ctx, token, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockFinanceAPI) DeleteTransaction(ctx context.Context, token string, id string) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

// MockPreferenceStore mocks the PreferenceStore interface
type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) Token() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceStore) SetToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockPreferenceStore) ClearToken() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockPreferenceStore) Theme() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockPreferenceStore) SetTheme(theme string) error {
	args := m.Called(theme)
	return args.Error(0)
}
