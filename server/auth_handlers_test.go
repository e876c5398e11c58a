package server_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"dashgate/provider"
)

// startLogin drives GET /auth/start and returns the session cookie plus the
// state the provider would echo back on the callback.
func startLogin(t *testing.T, f *serverFixture, next string) (*http.Cookie, string) {
	t.Helper()

	target := "/auth/start"
	if next != "" {
		target += "?next=" + url.QueryEscape(next)
	}
	w := f.do(http.MethodGet, target, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "start must establish a session cookie")
	return cookie, state
}

func callbackTarget(state, code string) string {
	q := url.Values{}
	if state != "" {
		q.Set("state", state)
	}
	if code != "" {
		q.Set("code", code)
	}
	return "/auth/callback?" + q.Encode()
}

func TestLoginFlow(t *testing.T) {
	t.Run("start redirects to the provider authorize URL", func(t *testing.T) {
		f := setupServerFixture(t)
		w := f.do(http.MethodGet, "/auth/start", nil)

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Contains(t, w.Header().Get("Location"), "https://provider.example/oauth2/authorize?state=")
	})

	t.Run("full round trip lands on the requested page", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, state := startLogin(t, f, "/reports/42")

		w := f.do(http.MethodGet, callbackTarget(state, "good-code"), cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/reports/42", w.Header().Get("Location"))

		w = f.do(http.MethodGet, "/dashboard", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "test-user")
	})

	t.Run("without a next parameter the user lands on the dashboard", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, state := startLogin(t, f, "")

		w := f.do(http.MethodGet, callbackTarget(state, "good-code"), cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("denied consent aborts with a generic failure", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, _ := startLogin(t, f, "")

		w := f.do(http.MethodGet, "/auth/callback?error=access_denied", cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Empty(t, f.provider.ExchangedCodes)

		w = f.do(http.MethodGet, "/dashboard", cookie)
		require.Equal(t, http.StatusSeeOther, w.Code, "session must stay unauthenticated")
	})

	t.Run("forged state is rejected", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, _ := startLogin(t, f, "")

		w := f.do(http.MethodGet, callbackTarget("forged-state", "good-code"), cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Empty(t, f.provider.ExchangedCodes)
	})

	t.Run("replayed callback is rejected", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, state := startLogin(t, f, "")

		w := f.do(http.MethodGet, callbackTarget(state, "good-code"), cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)

		w = f.do(http.MethodGet, callbackTarget(state, "good-code"), cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing code is rejected", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, state := startLogin(t, f, "")

		w := f.do(http.MethodGet, callbackTarget(state, ""), cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("provider failure maps to a generic 400", func(t *testing.T) {
		f := setupServerFixture(t)
		f.provider.ExchangeErr = provider.ErrTokenExchange
		cookie, state := startLogin(t, f, "")

		w := f.do(http.MethodGet, callbackTarget(state, "good-code"), cookie)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotContains(t, w.Body.String(), "exchange", "provider detail must not leak")
	})
}

func TestLogout(t *testing.T) {
	t.Run("clears the session and lands on login", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, state := startLogin(t, f, "")
		f.do(http.MethodGet, callbackTarget(state, "good-code"), cookie)

		w := f.do(http.MethodGet, "/auth/logout", cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/auth/login", w.Header().Get("Location"))
		require.Len(t, f.provider.RevokedTokens, 1)

		w = f.do(http.MethodGet, "/dashboard", cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("succeeds even when revocation fails", func(t *testing.T) {
		f := setupServerFixture(t)
		cookie, state := startLogin(t, f, "")
		f.do(http.MethodGet, callbackTarget(state, "good-code"), cookie)
		f.provider.RevokeErr = provider.ErrRevoke

		w := f.do(http.MethodGet, "/auth/logout", cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/auth/login", w.Header().Get("Location"))

		w = f.do(http.MethodGet, "/dashboard", cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("anonymous logout still succeeds", func(t *testing.T) {
		f := setupServerFixture(t)
		w := f.do(http.MethodGet, "/auth/logout", nil)

		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/auth/login", w.Header().Get("Location"))
	})
}
