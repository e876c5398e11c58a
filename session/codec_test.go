package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"dashgate/provider"
	"dashgate/session"
)

// failingRepo wraps the in-memory repo and fails writes to one key, to
// exercise the all-or-nothing login persistence.
type failingRepo struct {
	session.Repo
	failKey string
}

func (r *failingRepo) Put(ctx context.Context, sessionID, key, value string) error {
	if key == r.failKey {
		return errors.New("store unavailable")
	}
	return r.Repo.Put(ctx, sessionID, key, value)
}

func TestCodec_SaveLogin(t *testing.T) {
	ctx := context.Background()

	tokens := provider.TokenSet{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    604800,
		TokenType:    "Bearer",
		Raw:          map[string]any{"scope": "identify guilds"},
	}
	user := provider.UserProfile{
		ID:            "4242",
		Username:      "someone",
		Discriminator: "0001",
		Avatar:        "abcdef",
		Raw:           map[string]any{"locale": "en-US"},
	}

	t.Run("round-trips the consumed token fields", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		require.NoError(t, sess.SaveLogin(ctx, tokens, user))

		got, ok, err := sess.Tokens(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, tokens.AccessToken, got.AccessToken)
		require.Equal(t, tokens.RefreshToken, got.RefreshToken)
		require.Equal(t, tokens.ExpiresIn, got.ExpiresIn)
		require.Equal(t, tokens.TokenType, got.TokenType)
	})

	t.Run("round-trips the profile fields", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		require.NoError(t, sess.SaveLogin(ctx, tokens, user))

		got, ok, err := sess.User(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, user.ID, got.ID)
		require.Equal(t, user.Username, got.Username)
		require.Equal(t, user.Discriminator, got.Discriminator)
		require.Equal(t, user.Avatar, got.Avatar)
	})

	t.Run("defaults the token type at the serialization boundary", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		untyped := tokens
		untyped.TokenType = ""
		require.NoError(t, sess.SaveLogin(ctx, untyped, user))

		got, _, err := sess.Tokens(ctx)
		require.NoError(t, err)
		require.Equal(t, "Bearer", got.TokenType)
	})

	t.Run("rolls back tokens when the user write fails", func(t *testing.T) {
		repo := &failingRepo{Repo: session.NewInMemoryRepo(), failKey: "user"}
		sess := session.NewCodec(repo, "s1")

		require.Error(t, sess.SaveLogin(ctx, tokens, user))

		_, ok, err := sess.Tokens(ctx)
		require.NoError(t, err)
		require.False(t, ok)
		require.False(t, sess.Authenticated(ctx))
	})
}

func TestCodec_Authenticated(t *testing.T) {
	ctx := context.Background()

	t.Run("false on an empty session", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		require.False(t, sess.Authenticated(ctx))
	})

	t.Run("true after a saved login", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		require.NoError(t, sess.SaveLogin(ctx,
			provider.TokenSet{AccessToken: "access-1"},
			provider.UserProfile{ID: "1", Username: "someone"},
		))
		require.True(t, sess.Authenticated(ctx))
	})

	t.Run("false again after clear", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		require.NoError(t, sess.SaveLogin(ctx,
			provider.TokenSet{AccessToken: "access-1"},
			provider.UserProfile{ID: "1", Username: "someone"},
		))
		require.NoError(t, sess.Clear(ctx))
		require.False(t, sess.Authenticated(ctx))
	})
}

func TestCodec_SingleUseFields(t *testing.T) {
	ctx := context.Background()

	t.Run("oauth state pops exactly once", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		require.NoError(t, sess.SetOAuthState(ctx, "nonce"))

		value, ok, err := sess.PopOAuthState(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "nonce", value)

		_, ok, err = sess.PopOAuthState(ctx)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("after login path pops exactly once", func(t *testing.T) {
		sess := session.NewCodec(session.NewInMemoryRepo(), "s1")
		require.NoError(t, sess.SetAfterLogin(ctx, "/reports/42"))

		value, ok, err := sess.PopAfterLogin(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "/reports/42", value)

		_, ok, err = sess.PopAfterLogin(ctx)
		require.NoError(t, err)
		require.False(t, ok)
	})
}
