package authflow

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"

	"dashgate/provider"
	"dashgate/session"
)

// stateLength is the number of random bytes in the CSRF state nonce.
// 32 bytes is 256 bits of entropy.
const stateLength = 32

// Controller orchestrates the three authentication operations: login-start,
// callback and logout. It talks only to the provider client and the session
// codec; HTTP concerns stay in the server package.
//
// Session states: Anonymous -> PendingCallback (StartLogin) -> Authenticated
// (Callback), back to Anonymous on logout or any callback failure.
type Controller struct {
	provider provider.Client
}

// CallbackQuery carries the provider callback's query parameters.
type CallbackQuery struct {
	Code      string
	State     string
	ErrorCode string
	ErrorDesc string
}

func New(p provider.Client) *Controller {
	return &Controller{provider: p}
}

// StartLogin records a validated return path, generates and stores the
// single-use CSRF state, and returns the provider authorize URL to redirect
// the user to.
func (c *Controller) StartLogin(ctx context.Context, sess *session.Codec, next string) (string, error) {
	if target := SafeNext(next); next != "" && target != DefaultTarget {
		if err := sess.SetAfterLogin(ctx, target); err != nil {
			return "", fmt.Errorf("store return path: %w", err)
		}
	} else if err := sess.ClearAfterLogin(ctx); err != nil {
		return "", fmt.Errorf("clear return path: %w", err)
	}

	state := generateState()
	if err := sess.SetOAuthState(ctx, state); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return c.provider.AuthorizeURL(state), nil
}

// Callback verifies the provider callback and materializes the session.
// The stored state is popped before anything else is attempted, so the
// exchange never runs speculatively and a replayed callback finds nothing
// to match. On any failure no session authentication fields are committed.
// On success it returns the final redirect target.
func (c *Controller) Callback(ctx context.Context, sess *session.Codec, q CallbackQuery) (string, error) {
	if q.ErrorCode != "" {
		return "", fmt.Errorf("%w: %s", ErrProviderDenied, q.ErrorCode)
	}

	stored, ok, err := sess.PopOAuthState(ctx)
	if err != nil {
		return "", fmt.Errorf("pop oauth state: %w", err)
	}
	if !ok || stored == "" || q.State == "" || stored != q.State {
		return "", ErrStateMismatch
	}
	if q.Code == "" {
		return "", ErrMissingCode
	}

	tokens, err := c.provider.ExchangeCode(ctx, q.Code)
	if err != nil {
		log.Err(err).Msg("callback: token exchange failed")
		return "", ErrAuthenticationFailed
	}
	user, err := c.provider.FetchProfile(ctx, tokens)
	if err != nil {
		log.Err(err).Msg("callback: profile fetch failed")
		return "", ErrAuthenticationFailed
	}

	if err := sess.SaveLogin(ctx, tokens, user); err != nil {
		return "", fmt.Errorf("persist login: %w", err)
	}

	target, _, err := sess.PopAfterLogin(ctx)
	if err != nil {
		log.Err(err).Msg("callback: reading return path failed")
		target = ""
	}
	return SafeNext(target), nil
}

// Logout revokes the stored tokens best-effort and unconditionally clears
// the session. Logging out an anonymous session is a successful no-op.
func (c *Controller) Logout(ctx context.Context, sess *session.Codec) error {
	if tokens, ok, err := sess.Tokens(ctx); err == nil && ok {
		if err := c.provider.Revoke(ctx, tokens); err != nil {
			log.Err(err).Msg("logout: token revocation failed")
		}
	}
	return sess.Clear(ctx)
}

func generateState() string {
	b := make([]byte, stateLength)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
