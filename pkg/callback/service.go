package callback

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/callbackd/pkg/credstore"
	"github.com/dmitrymomot/callbackd/pkg/exchange"
	"github.com/dmitrymomot/callbackd/pkg/logger"
	"github.com/dmitrymomot/callbackd/pkg/state"
)

// TokenExchanger turns a valid authorization code into credentials and a
// profile. Implemented by pkg/exchange.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*exchange.Credentials, error)
	FetchProfile(ctx context.Context, accessToken string) (*exchange.Profile, error)
}

// Notifier reports a terminal outcome out-of-band. Implementations are
// best-effort: they log their own failures and never return one.
type Notifier interface {
	Report(ctx context.Context, out Outcome)
}

// CredentialWriter caches exchanged credentials for downstream consumption.
type CredentialWriter interface {
	Save(ctx context.Context, rec credstore.Record) error
}

// Service orchestrates one callback request end to end:
// validate, rotate, exchange, cache, consume, notify.
type Service struct {
	store       state.Store
	issuer      *state.Issuer
	staticCheck StaticSecretCheck
	singleUse   SingleUseCheck
	exchanger   TokenExchanger
	creds       CredentialWriter
	notifier    Notifier
	logger      *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger configures the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService constructs the callback orchestrator.
func NewService(
	store state.Store,
	issuer *state.Issuer,
	exchanger TokenExchanger,
	creds CredentialWriter,
	notifier Notifier,
	cfg Config,
	opts ...Option,
) *Service {
	s := &Service{
		store:       store,
		issuer:      issuer,
		staticCheck: NewStaticSecretCheck(cfg.ExpectedState),
		singleUse:   NewSingleUseCheck(store),
		exchanger:   exchanger,
		creds:       creds,
		notifier:    notifier,
		logger:      logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleCallback runs the full protocol for one request and returns its
// terminal outcome. The notifier is invoked exactly once, after the outcome
// is decided; its result cannot change the outcome.
func (s *Service) HandleCallback(ctx context.Context, req Request) Outcome {
	out := s.process(ctx, req)

	s.logger.InfoContext(ctx, "callback processed",
		logger.Component("callback"),
		logger.Outcome(string(out.Kind)),
		logger.State(req.State),
	)

	s.notifier.Report(ctx, out)
	return out
}

func (s *Service) process(ctx context.Context, req Request) Outcome {
	// Tier one: the deploy-time shared secret.
	if !s.staticCheck.Valid(req.State) {
		return Outcome{Kind: KindConfigMismatch, State: req.State, CodePresent: req.Code != ""}
	}

	// Provider-reported errors and missing codes terminate before any store
	// access; these paths must not mutate state.
	if req.Error != "" {
		return Outcome{
			Kind:                KindProviderError,
			State:               req.State,
			ProviderCode:        req.Error,
			ProviderDescription: req.ErrorDescription,
		}
	}
	if req.Code == "" {
		return Outcome{Kind: KindMissingCode, State: req.State}
	}

	// Tier two: the rotating single-use registry.
	ok, known, err := s.singleUse.Check(ctx, req.State)
	if err != nil {
		return s.storeFailure(ctx, req, err)
	}
	if !ok {
		return s.replayOutcome(ctx, req)
	}

	// Rotate before the exchange: whatever happens downstream, the next
	// legitimate flow needs a fresh token waiting.
	newRec, err := s.issuer.Issue(ctx)
	if err != nil {
		return s.storeFailure(ctx, req, err)
	}

	creds, err := s.exchanger.ExchangeCode(ctx, req.Code)
	if err != nil {
		var perr *exchange.ProviderError
		if errors.As(err, &perr) {
			return Outcome{
				Kind:           KindTokenExchangeFailed,
				State:          req.State,
				NewState:       newRec.ID,
				CodePresent:    true,
				ExchangeStatus: perr.Status,
				ExchangeBody:   perr.Body,
			}
		}
		// The presented state stays unconsumed so the legitimate user can retry.
		return Outcome{
			Kind:        KindNetworkError,
			State:       req.State,
			NewState:    newRec.ID,
			CodePresent: true,
			Err:         err,
		}
	}

	profile, profileErr := s.exchanger.FetchProfile(ctx, creds.AccessToken)
	if profileErr != nil {
		// One bad profile call must not void a valid exchange.
		s.logger.WarnContext(ctx, "profile fetch failed, proceeding without identity fields",
			logger.Component("callback"),
			logger.Error(profileErr),
		)
		profile = nil
	}

	if s.creds != nil {
		rec := credstore.Record{
			AccessToken:  creds.AccessToken,
			RefreshToken: creds.RefreshToken,
			Scope:        creds.Scope,
			ExpiresAt:    creds.ExpiresAt,
			ObtainedAt:   time.Now().UTC(),
		}
		if err := s.creds.Save(ctx, rec); err != nil {
			s.logger.ErrorContext(ctx, "failed to cache credentials",
				logger.Component("callback"),
				logger.Error(err),
			)
		}
	}

	// Consume the presented state. The CAS decides races: of two concurrent
	// requests that both passed validation, only the winner gets a success.
	if known {
		won, err := s.store.TryConsume(ctx, req.State)
		if err != nil {
			return s.storeFailure(ctx, req, err)
		}
		if !won {
			return s.replayOutcome(ctx, req)
		}
	}

	return Outcome{
		Kind:            KindSuccess,
		State:           req.State,
		NewState:        newRec.ID,
		CodePresent:     true,
		Credentials:     creds,
		Profile:         profile,
		ProfileDegraded: profileErr != nil,
	}
}

func (s *Service) replayOutcome(ctx context.Context, req Request) Outcome {
	out := Outcome{
		Kind:        KindReplayOrExpired,
		State:       req.State,
		CodePresent: req.Code != "",
	}

	// Best-effort diagnostic: name an unused record the operator can redeploy
	// with. Its absence is itself worth reporting.
	rec, err := s.store.FindOneUnused(ctx)
	switch {
	case err == nil:
		out.SuggestedState = rec.ID
	case !errors.Is(err, state.ErrNotFound):
		s.logger.WarnContext(ctx, "failed to look up unused state for diagnostics",
			logger.Component("callback"),
			logger.Error(err),
		)
	}
	return out
}

func (s *Service) storeFailure(ctx context.Context, req Request, err error) Outcome {
	// An inconsistent registry locks out every future flow and needs manual
	// repair, so this is logged with full detail.
	s.logger.ErrorContext(ctx, "state store failure during callback handling",
		logger.Component("callback"),
		logger.State(req.State),
		logger.Error(err),
	)
	return Outcome{Kind: KindStoreFailure, State: req.State, CodePresent: req.Code != "", Err: err}
}
