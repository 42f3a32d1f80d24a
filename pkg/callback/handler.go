package callback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/callbackd/pkg/credstore"
	"github.com/dmitrymomot/callbackd/pkg/logger"
)

// CredentialReader retrieves cached credentials for the debugging endpoint.
type CredentialReader interface {
	Latest(ctx context.Context) (*credstore.Record, error)
}

// Handler exposes the HTTP surface of the callback receiver: the callback
// endpoint itself, a status route and a credentials debugging route. Status
// checking and callback processing are deliberately separate endpoints.
type Handler struct {
	svc        *Service
	creds      CredentialReader
	clientName string
	logger     *slog.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(svc *Service, creds CredentialReader, cfg Config, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Handler{svc: svc, creds: creds, clientName: cfg.ClientName, logger: log}
}

// Router returns a router with all handler routes mounted at their paths.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Status)
	r.Get("/callback", h.Callback)
	r.Get("/tokens", h.Tokens)
	return r
}

// Status reports that the service is up. It never touches the state
// registry or processes callback parameters.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"note":   "this service accepts GET requests to /callback with an authorization code and state",
	})
}

// Callback processes one inbound callback delivery.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	out := h.svc.HandleCallback(r.Context(), ParseRequest(r))

	switch out.Kind {
	case KindSuccess:
		writeJSON(w, http.StatusOK, map[string]any{
			"message":        fmt.Sprintf("Thank you for granting access to %s, the provider API is now available for use.", h.clientName),
			"scopes_granted": scopesOf(out),
		})
	case KindConfigMismatch:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_state"})
	case KindProviderError:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             out.ProviderCode,
			"error_description": out.ProviderDescription,
		})
	case KindMissingCode:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing_code"})
	case KindReplayOrExpired:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_or_used_state"})
	case KindNetworkError:
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  "network_error",
			"detail": errDetail(out.Err),
		})
	case KindTokenExchangeFailed:
		status := out.ExchangeStatus
		if status == 0 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]any{
			"error":  "token_exchange_failed",
			"status": out.ExchangeStatus,
			"body":   out.ExchangeBody,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal_error"})
	}
}

// Tokens returns the cached credentials with token values redacted.
// Debugging convenience; raw tokens never appear in a response body.
func (h *Handler) Tokens(w http.ResponseWriter, r *http.Request) {
	if h.creds == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no_tokens_saved"})
		return
	}

	rec, err := h.creds.Latest(r.Context())
	if errors.Is(err, credstore.ErrNoCredentials) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no_tokens_saved"})
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read cached credentials",
			logger.Component("callback"),
			logger.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "read_failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tokens": rec.Redacted()})
}

func scopesOf(out Outcome) string {
	if out.Credentials == nil {
		return ""
	}
	return out.Credentials.Scope
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
