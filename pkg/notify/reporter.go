package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/callbackd/pkg/callback"
	"github.com/dmitrymomot/callbackd/pkg/email"
	"github.com/dmitrymomot/callbackd/pkg/logger"
)

const emailTag = "oauth-callback"

// Reporter emails one report per terminal callback outcome. It implements
// callback.Notifier.
type Reporter struct {
	sender email.EmailSender
	cfg    Config
	logger *slog.Logger
}

// NewReporter creates a Reporter delivering through the given sender.
func NewReporter(sender email.EmailSender, cfg Config, log *slog.Logger) *Reporter {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Reporter{sender: sender, cfg: cfg, logger: log}
}

// Report sends the outcome to the configured recipient. Send failures are
// logged and swallowed so delivery never alters the callback response.
func (r *Reporter) Report(ctx context.Context, out callback.Outcome) {
	params := email.SendEmailParams{
		SendTo:   r.cfg.RecipientEmail,
		Subject:  r.subject(out),
		BodyHTML: r.body(out),
		Tag:      emailTag,
	}
	if err := r.sender.SendEmail(ctx, params); err != nil {
		r.logger.ErrorContext(ctx, "failed to send outcome report",
			logger.Component("notify"),
			logger.Outcome(string(out.Kind)),
			logger.Error(err),
		)
	}
}

func (r *Reporter) subject(out callback.Outcome) string {
	switch out.Kind {
	case callback.KindSuccess:
		return fmt.Sprintf("New access token granted for %s", r.cfg.ClientName)
	case callback.KindConfigMismatch:
		return fmt.Sprintf("Attempt to OAUTH using an unknown state for %s", r.cfg.ClientName)
	case callback.KindReplayOrExpired:
		return fmt.Sprintf("Attempt to OAUTH using an expired state for %s", r.cfg.ClientName)
	case callback.KindProviderError:
		return fmt.Sprintf("Provider declined the authorization for %s", r.cfg.ClientName)
	case callback.KindMissingCode:
		return fmt.Sprintf("Callback arrived without an authorization code for %s", r.cfg.ClientName)
	case callback.KindNetworkError:
		return fmt.Sprintf("Token endpoint unreachable during callback for %s", r.cfg.ClientName)
	case callback.KindTokenExchangeFailed:
		return fmt.Sprintf("Token exchange rejected for %s", r.cfg.ClientName)
	case callback.KindStoreFailure:
		return fmt.Sprintf("State registry failure during callback for %s", r.cfg.ClientName)
	default:
		return fmt.Sprintf("Callback outcome for %s", r.cfg.ClientName)
	}
}

func (r *Reporter) body(out callback.Outcome) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, "<p>"+format+"</p>\n", args...)
	}

	switch out.Kind {
	case callback.KindSuccess:
		line("A new access token was granted to %s.", r.cfg.ClientName)
		if out.Credentials != nil {
			line("Scopes granted: %s", out.Credentials.Scope)
			if !out.Credentials.ExpiresAt.IsZero() {
				line("Token expires at: %s", out.Credentials.ExpiresAt.UTC().Format(time.RFC3339))
			}
			line("Access token: [redacted]")
		}
		if out.Profile != nil {
			line("Granted by: %s %s (id %s)", out.Profile.FirstName, out.Profile.LastName, out.Profile.ID)
		} else if out.ProfileDegraded {
			line("Profile lookup failed; the grant succeeded without identity details.")
		}
		line("Used state: %s", out.State)
		line("New state: %s", out.NewState)
	case callback.KindConfigMismatch:
		line("A callback presented a state that does not match the configured secret.")
		line("Invalid state: %s", out.State)
		line("Authorization code present: %t", out.CodePresent)
	case callback.KindReplayOrExpired:
		line("A callback presented a state that was already used or never issued.")
		line("Expired state: %s", out.State)
		if out.SuggestedState != "" {
			line("Currently valid state: %s", out.SuggestedState)
		}
		line("Authorization code present: %t", out.CodePresent)
	case callback.KindProviderError:
		line("The provider redirected back with an error instead of a code.")
		line("Error: %s", out.ProviderCode)
		if out.ProviderDescription != "" {
			line("Description: %s", out.ProviderDescription)
		}
	case callback.KindMissingCode:
		line("A callback passed state validation but carried no authorization code.")
		line("State: %s", out.State)
	case callback.KindNetworkError:
		line("The token endpoint could not be reached. The state was not consumed and the redirect may be retried.")
		line("State: %s", out.State)
		if out.Err != nil {
			line("Detail: %s", out.Err.Error())
		}
	case callback.KindTokenExchangeFailed:
		line("The token endpoint rejected the authorization code. The state was not consumed.")
		line("State: %s", out.State)
		line("Provider status: %d", out.ExchangeStatus)
		if out.ExchangeBody != "" {
			line("Provider answer: %s", out.ExchangeBody)
		}
	case callback.KindStoreFailure:
		line("The state registry failed mid-callback and may be inconsistent. Manual inspection is required.")
		line("State: %s", out.State)
		if out.Err != nil {
			line("Detail: %s", out.Err.Error())
		}
	default:
		line("Callback finished with outcome %q for state %s.", out.Kind, out.State)
	}

	return b.String()
}
