package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "none"},
		{name: "cookie only", cookie: "c-token", want: "c-token"},
		{name: "bearer only", header: "Bearer b-token", want: "b-token"},
		{name: "bearer wins over cookie", header: "Bearer b-token", cookie: "c-token", want: "b-token"},
		{name: "empty bearer falls back to cookie", header: "Bearer  ", cookie: "c-token", want: "c-token"},
		{name: "other scheme ignored", header: "Basic dXNlcjpwYXNz", cookie: "c-token", want: "c-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, SessionToken(req))
		})
	}
}

func TestRequireUser_bearerBeatsStaleCookie(t *testing.T) {
	s := newTestServer(t)
	bob := s.loginAsBob(t)

	req := newRequest(t, http.MethodGet, "/bookings")
	req.Header.Set("Authorization", "Bearer "+bob.Value)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "expired-or-garbage"})
	assert.Equal(t, http.StatusOK, serve(s.router, req).Code)
}

func TestIPLimiter_evictsIdleClients(t *testing.T) {
	l := newIPLimiter(0.001, 1, 50*time.Millisecond)

	first := l.get("10.0.0.1")
	require.True(t, first.Allow())
	assert.Same(t, first, l.get("10.0.0.1"))
	assert.False(t, l.get("10.0.0.1").Allow())
	assert.NotSame(t, first, l.get("10.0.0.2"))
	assert.Equal(t, 2, l.limiters.ItemCount())

	time.Sleep(120 * time.Millisecond)
	l.limiters.DeleteExpired()
	assert.Equal(t, 0, l.limiters.ItemCount())

	fresh := l.get("10.0.0.1")
	assert.NotSame(t, first, fresh)
	assert.True(t, fresh.Allow())
}
