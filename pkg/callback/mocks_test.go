package callback

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/callbackd/pkg/credstore"
	"github.com/dmitrymomot/callbackd/pkg/exchange"
	"github.com/dmitrymomot/callbackd/pkg/state"
)

// MockTokenExchanger is a mock implementation of TokenExchanger.
type MockTokenExchanger struct {
	mock.Mock
}

func (m *MockTokenExchanger) ExchangeCode(ctx context.Context, code string) (*exchange.Credentials, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Credentials), args.Error(1)
}

func (m *MockTokenExchanger) FetchProfile(ctx context.Context, accessToken string) (*exchange.Profile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Profile), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Report(ctx context.Context, out Outcome) {
	m.Called(ctx, out)
}

// MockCredentialWriter is a mock implementation of CredentialWriter.
type MockCredentialWriter struct {
	mock.Mock
}

func (m *MockCredentialWriter) Save(ctx context.Context, rec credstore.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockStateStore is a mock implementation of state.Store for paths where
// store interaction itself is under test.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Get(ctx context.Context, id string) (*state.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.Record), args.Error(1)
}

func (m *MockStateStore) Put(ctx context.Context, rec *state.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStateStore) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStateStore) TryConsume(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStateStore) IsEmpty(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockStateStore) FindOneUnused(ctx context.Context) (*state.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*state.Record), args.Error(1)
}
