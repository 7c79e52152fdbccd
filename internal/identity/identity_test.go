package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureIdentity(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()

	var got context.Context
	h := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.Context()
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got == nil {
		t.Fatal("next handler was not called")
	}
	return rec, got
}

func TestMiddlewareIssuesCookie(t *testing.T) {
	t.Parallel()

	rec, ctx := captureIdentity(t, httptest.NewRequest(http.MethodGet, "/api/pages/home", nil))

	userID := UserIDFromContext(ctx)
	if !isValidAnonID(userID) {
		t.Fatalf("user id = %q, want anon_<hex>", userID)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != AnonCookieName || cookies[0].Value != userID {
		t.Fatalf("cookies = %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("identity cookie must be HttpOnly")
	}
	if got, want := SessionKeyFromContext(ctx), userID+":"+DefaultSessionIDValue; got != want {
		t.Fatalf("session key = %q, want %q", got, want)
	}
	if name := UsernameFromContext(ctx); name != "anon-"+userID[len(userID)-8:] {
		t.Fatalf("username = %q", name)
	}
}

func TestMiddlewareReusesCookieAndSessionHeader(t *testing.T) {
	t.Parallel()

	const id = "anon_0123456789abcdef0123456789abcdef"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	req.Header.Set(SessionHeaderName, "tab-42")

	_, ctx := captureIdentity(t, req)
	if got := SessionKeyFromContext(ctx); got != id+":tab-42" {
		t.Fatalf("session key = %q", got)
	}
}

func TestMiddlewareRejectsForgedValues(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?session_id="+strings.Repeat("x", 200), nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "admin"})

	_, ctx := captureIdentity(t, req)
	if got := UserIDFromContext(ctx); got == "admin" || !isValidAnonID(got) {
		t.Fatalf("user id = %q, want a freshly generated id", got)
	}
	if got := SessionIDFromContext(ctx); got != DefaultSessionIDValue {
		t.Fatalf("session id = %q, want default", got)
	}
}

func TestSessionKeyFromContextWithoutIdentity(t *testing.T) {
	t.Parallel()

	if got := SessionKeyFromContext(context.Background()); got != "" {
		t.Fatalf("SessionKeyFromContext() = %q, want empty", got)
	}
}

func TestIPFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if got := IPFromRequest(req); got != "10.1.2.3" {
		t.Fatalf("IPFromRequest() = %q", got)
	}
	req.RemoteAddr = "garbage"
	if got := IPFromRequest(req); got != "garbage" {
		t.Fatalf("IPFromRequest() = %q", got)
	}
}
