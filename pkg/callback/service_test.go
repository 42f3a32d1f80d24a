package callback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callbackd/pkg/exchange"
	"github.com/dmitrymomot/callbackd/pkg/state"
)

func testCredentials() *exchange.Credentials {
	return &exchange.Credentials{
		AccessToken:  "tok-secret",
		RefreshToken: "refresh-secret",
		Scope:        "r_liteprofile",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func testProfile() *exchange.Profile {
	return &exchange.Profile{ID: "u1", FirstName: "Ada", LastName: "Lovelace"}
}

// reportOnce expects exactly one Report call and captures its outcome.
func reportOnce(t *testing.T, notifier *MockNotifier) *Outcome {
	t.Helper()
	captured := &Outcome{}
	notifier.On("Report", mock.Anything, mock.AnythingOfType("callback.Outcome")).Run(func(args mock.Arguments) {
		*captured = args.Get(1).(Outcome)
	}).Once()
	return captured
}

func TestHandleCallbackBootstrap(t *testing.T) {
	t.Parallel()

	// Scenario A: empty store, static secret matches, exchange succeeds.
	store := state.NewMemoryStore()
	exchanger := &MockTokenExchanger{}
	notifier := &MockNotifier{}
	creds := &MockCredentialWriter{}

	exchanger.On("ExchangeCode", mock.Anything, "abc").Return(testCredentials(), nil)
	exchanger.On("FetchProfile", mock.Anything, "tok-secret").Return(testProfile(), nil)
	creds.On("Save", mock.Anything, mock.AnythingOfType("credstore.Record")).Return(nil)
	reported := reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), exchanger, creds, notifier, Config{ExpectedState: "424242"})

	out := svc.HandleCallback(context.Background(), Request{State: "424242", Code: "abc"})

	assert.Equal(t, KindSuccess, out.Kind)
	assert.NotEmpty(t, out.NewState)
	assert.NotEqual(t, "424242", out.NewState)
	assert.Equal(t, "r_liteprofile", out.Credentials.Scope)

	// Rotation populated the registry with exactly one unused record.
	rec, err := store.FindOneUnused(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out.NewState, rec.ID)

	assert.Equal(t, KindSuccess, reported.Kind)
	notifier.AssertExpectations(t)
	exchanger.AssertExpectations(t)
	creds.AssertExpectations(t)
}

func TestHandleCallbackRotatingState(t *testing.T) {
	t.Parallel()

	// Scenario B: a persisted unused record is consumed and rotated.
	store := state.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111", CreatedAt: time.Now().UTC()}))

	exchanger := &MockTokenExchanger{}
	notifier := &MockNotifier{}

	exchanger.On("ExchangeCode", mock.Anything, "xyz").Return(testCredentials(), nil)
	exchanger.On("FetchProfile", mock.Anything, "tok-secret").Return(testProfile(), nil)
	reported := reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), exchanger, nil, notifier, Config{ExpectedState: "555111"})

	out := svc.HandleCallback(context.Background(), Request{State: "555111", Code: "xyz"})

	require.Equal(t, KindSuccess, out.Kind)
	assert.Equal(t, "r_liteprofile", out.Credentials.Scope)
	assert.Equal(t, "u1", out.Profile.ID)

	// The consumed record flipped to used.
	got, err := store.Get(context.Background(), "555111")
	require.NoError(t, err)
	assert.True(t, got.Used)

	// Exactly one unused record remains: the rotated one.
	unused, err := store.FindOneUnused(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out.NewState, unused.ID)

	won, err := store.TryConsume(context.Background(), unused.ID)
	require.NoError(t, err)
	require.True(t, won)
	_, err = store.FindOneUnused(context.Background())
	assert.ErrorIs(t, err, state.ErrNotFound)

	assert.Equal(t, out.NewState, reported.NewState)
	notifier.AssertExpectations(t)
}

func TestHandleCallbackReplay(t *testing.T) {
	t.Parallel()

	t.Run("unknown state after bootstrap", func(t *testing.T) {
		t.Parallel()

		// Scenario C: registry holds 555111, request presents 999999.
		store := state.NewMemoryStore()
		require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111"}))

		notifier := &MockNotifier{}
		reported := reportOnce(t, notifier)

		svc := NewService(store, state.NewIssuer(store), &MockTokenExchanger{}, nil, notifier, Config{ExpectedState: "999999"})

		out := svc.HandleCallback(context.Background(), Request{State: "999999", Code: "abc"})

		assert.Equal(t, KindReplayOrExpired, out.Kind)
		assert.Equal(t, "999999", out.State)
		assert.Equal(t, "555111", out.SuggestedState, "diagnostics suggest an unused replacement")

		// Nothing was mutated.
		rec, err := store.Get(context.Background(), "555111")
		require.NoError(t, err)
		assert.False(t, rec.Used)

		assert.Equal(t, "555111", reported.SuggestedState)
		notifier.AssertExpectations(t)
	})

	t.Run("already consumed state with no unused replacement", func(t *testing.T) {
		t.Parallel()

		store := state.NewMemoryStore()
		require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111", Used: true}))

		notifier := &MockNotifier{}
		reported := reportOnce(t, notifier)

		svc := NewService(store, state.NewIssuer(store), &MockTokenExchanger{}, nil, notifier, Config{ExpectedState: "555111"})

		out := svc.HandleCallback(context.Background(), Request{State: "555111", Code: "abc"})

		assert.Equal(t, KindReplayOrExpired, out.Kind)
		assert.Empty(t, out.SuggestedState)
		assert.Empty(t, reported.SuggestedState)
		notifier.AssertExpectations(t)
	})
}

func TestHandleCallbackProviderError(t *testing.T) {
	t.Parallel()

	// Scenario D: provider error parameter short-circuits before any store
	// interaction. The mock store fails the test on any unexpected call.
	store := &MockStateStore{}
	notifier := &MockNotifier{}
	reported := reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), &MockTokenExchanger{}, nil, notifier, Config{ExpectedState: "424242"})

	out := svc.HandleCallback(context.Background(), Request{
		State:            "424242",
		Error:            "access_denied",
		ErrorDescription: "user denied access",
	})

	assert.Equal(t, KindProviderError, out.Kind)
	assert.Equal(t, "access_denied", out.ProviderCode)
	assert.Equal(t, "user denied access", out.ProviderDescription)

	assert.Equal(t, KindProviderError, reported.Kind)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestHandleCallbackMissingCode(t *testing.T) {
	t.Parallel()

	store := &MockStateStore{}
	notifier := &MockNotifier{}
	reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), &MockTokenExchanger{}, nil, notifier, Config{ExpectedState: "424242"})

	out := svc.HandleCallback(context.Background(), Request{State: "424242"})

	assert.Equal(t, KindMissingCode, out.Kind)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestHandleCallbackConfigMismatch(t *testing.T) {
	t.Parallel()

	t.Run("state does not match secret", func(t *testing.T) {
		t.Parallel()

		notifier := &MockNotifier{}
		reportOnce(t, notifier)

		store := &MockStateStore{}
		svc := NewService(store, state.NewIssuer(store), &MockTokenExchanger{}, nil, notifier, Config{ExpectedState: "424242"})

		out := svc.HandleCallback(context.Background(), Request{State: "111111", Code: "abc"})

		assert.Equal(t, KindConfigMismatch, out.Kind)
		assert.Equal(t, "111111", out.State)
		notifier.AssertExpectations(t)
	})

	t.Run("mismatch wins over provider error", func(t *testing.T) {
		t.Parallel()

		notifier := &MockNotifier{}
		reported := reportOnce(t, notifier)

		store := &MockStateStore{}
		svc := NewService(store, state.NewIssuer(store), &MockTokenExchanger{}, nil, notifier, Config{ExpectedState: "424242"})

		out := svc.HandleCallback(context.Background(), Request{State: "wrong", Error: "access_denied"})

		assert.Equal(t, KindConfigMismatch, out.Kind)
		assert.Equal(t, KindConfigMismatch, reported.Kind)
		notifier.AssertExpectations(t)
	})
}

func TestHandleCallbackNetworkError(t *testing.T) {
	t.Parallel()

	// Scenario E: transport failure leaves the presented state unconsumed.
	store := state.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111"}))

	exchanger := &MockTokenExchanger{}
	exchanger.On("ExchangeCode", mock.Anything, "xyz").Return(nil, exchange.ErrNetwork)

	notifier := &MockNotifier{}
	reported := reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), exchanger, nil, notifier, Config{ExpectedState: "555111"})

	out := svc.HandleCallback(context.Background(), Request{State: "555111", Code: "xyz"})

	assert.Equal(t, KindNetworkError, out.Kind)
	assert.ErrorIs(t, out.Err, exchange.ErrNetwork)

	// The state must remain retryable by the legitimate user.
	rec, err := store.Get(context.Background(), "555111")
	require.NoError(t, err)
	assert.False(t, rec.Used)

	assert.Equal(t, KindNetworkError, reported.Kind)
	notifier.AssertExpectations(t)
}

func TestHandleCallbackTokenExchangeFailed(t *testing.T) {
	t.Parallel()

	store := state.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111"}))

	exchanger := &MockTokenExchanger{}
	exchanger.On("ExchangeCode", mock.Anything, "xyz").
		Return(nil, &exchange.ProviderError{Status: 401, Body: `{"error":"invalid_grant"}`})

	notifier := &MockNotifier{}
	reported := reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), exchanger, nil, notifier, Config{ExpectedState: "555111"})

	out := svc.HandleCallback(context.Background(), Request{State: "555111", Code: "xyz"})

	assert.Equal(t, KindTokenExchangeFailed, out.Kind)
	assert.Equal(t, 401, out.ExchangeStatus)
	assert.Contains(t, out.ExchangeBody, "invalid_grant")

	// Same retryability rule as transport failures.
	rec, err := store.Get(context.Background(), "555111")
	require.NoError(t, err)
	assert.False(t, rec.Used)

	assert.Equal(t, KindTokenExchangeFailed, reported.Kind)
}

func TestHandleCallbackProfileDegrades(t *testing.T) {
	t.Parallel()

	store := state.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111"}))

	exchanger := &MockTokenExchanger{}
	exchanger.On("ExchangeCode", mock.Anything, "xyz").Return(testCredentials(), nil)
	exchanger.On("FetchProfile", mock.Anything, "tok-secret").Return(nil, exchange.ErrProfileFetch)

	notifier := &MockNotifier{}
	reported := reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), exchanger, nil, notifier, Config{ExpectedState: "555111"})

	out := svc.HandleCallback(context.Background(), Request{State: "555111", Code: "xyz"})

	// One bad profile call does not void a valid exchange.
	assert.Equal(t, KindSuccess, out.Kind)
	assert.Nil(t, out.Profile)
	assert.True(t, out.ProfileDegraded)

	got, err := store.Get(context.Background(), "555111")
	require.NoError(t, err)
	assert.True(t, got.Used)

	assert.True(t, reported.ProfileDegraded)
}

func TestHandleCallbackCredentialCacheFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	store := state.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111"}))

	exchanger := &MockTokenExchanger{}
	exchanger.On("ExchangeCode", mock.Anything, "xyz").Return(testCredentials(), nil)
	exchanger.On("FetchProfile", mock.Anything, "tok-secret").Return(testProfile(), nil)

	creds := &MockCredentialWriter{}
	creds.On("Save", mock.Anything, mock.AnythingOfType("credstore.Record")).Return(errors.New("redis down"))

	notifier := &MockNotifier{}
	reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), exchanger, creds, notifier, Config{ExpectedState: "555111"})

	out := svc.HandleCallback(context.Background(), Request{State: "555111", Code: "xyz"})
	assert.Equal(t, KindSuccess, out.Kind)
}

func TestHandleCallbackRotationFailure(t *testing.T) {
	t.Parallel()

	store := &MockStateStore{}
	store.On("IsEmpty", mock.Anything).Return(true, nil)
	store.On("Put", mock.Anything, mock.AnythingOfType("*state.Record")).Return(errors.New("write concern failed"))

	notifier := &MockNotifier{}
	reported := reportOnce(t, notifier)

	svc := NewService(store, state.NewIssuer(store), &MockTokenExchanger{}, nil, notifier, Config{ExpectedState: "424242"})

	out := svc.HandleCallback(context.Background(), Request{State: "424242", Code: "abc"})

	assert.Equal(t, KindStoreFailure, out.Kind)
	assert.Error(t, out.Err)
	assert.Equal(t, KindStoreFailure, reported.Kind)
	store.AssertExpectations(t)
}

func TestHandleCallbackConcurrentSameState(t *testing.T) {
	t.Parallel()

	// Two concurrent callbacks presenting the same valid unused state:
	// at most one may succeed, the other must observe a replay.
	store := state.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), &state.Record{ID: "contested"}))

	exchanger := &MockTokenExchanger{}
	exchanger.On("ExchangeCode", mock.Anything, "abc").Return(testCredentials(), nil)
	exchanger.On("FetchProfile", mock.Anything, "tok-secret").Return(testProfile(), nil)

	notifier := &MockNotifier{}
	notifier.On("Report", mock.Anything, mock.AnythingOfType("callback.Outcome")).Return().Twice()

	svc := NewService(store, state.NewIssuer(store), exchanger, nil, notifier, Config{ExpectedState: "contested"})

	outcomes := make([]Outcome, 2)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range outcomes {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			outcomes[i] = svc.HandleCallback(context.Background(), Request{State: "contested", Code: "abc"})
		}()
	}
	close(start)
	wg.Wait()

	var successes, replays int
	for _, out := range outcomes {
		switch out.Kind {
		case KindSuccess:
			successes++
		case KindReplayOrExpired:
			replays++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent callback may win")
	assert.Equal(t, 1, replays, "the loser must observe a replay")

	notifier.AssertExpectations(t)
}
