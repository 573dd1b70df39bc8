package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clubhouse/internal/domain/user"
)

func resolver(roster map[string]user.User) UserResolver {
	return func(id string) (user.User, bool) {
		u, ok := roster[id]
		return u, ok
	}
}

func TestAuth_RestoresUserFromCookie(t *testing.T) {
	roster := map[string]user.User{
		"priya": {ID: "priya", Name: "Priya Sharma", Role: user.RoleMember},
	}

	var got user.User
	var gotOK bool
	handler := Auth(resolver(roster))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, gotOK = UserFromContext(r.Context())
	}))

	// Use a real login response to obtain the cookie shape.
	loginRec := httptest.NewRecorder()
	SetSessionCookie(loginRec, "priya")
	cookie := loginRec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK || got.ID != "priya" {
		t.Fatalf("user = %+v ok = %v", got, gotOK)
	}
}

func TestAuth_StaleUserIDIgnored(t *testing.T) {
	handler := Auth(resolver(nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); ok {
			t.Errorf("deleted user restored")
		}
	}))

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "deleted")
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuth_GarbageCookieIgnored(t *testing.T) {
	handler := Auth(resolver(nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); ok {
			t.Errorf("garbage cookie produced a session")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "clubhouse_session", Value: "!!not-base64!!"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name string
		ctx  func(r *http.Request) *http.Request
		want int
	}{
		{
			"no session",
			func(r *http.Request) *http.Request { return r },
			http.StatusUnauthorized,
		},
		{
			"member",
			func(r *http.Request) *http.Request {
				return r.WithContext(ContextWithUser(r.Context(), user.User{ID: "m", Role: user.RoleMember}))
			},
			http.StatusForbidden,
		},
		{
			"admin",
			func(r *http.Request) *http.Request {
				return r.WithContext(ContextWithUser(r.Context(), user.User{ID: "a", Role: user.RoleAdmin}))
			},
			http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.ctx(httptest.NewRequest(http.MethodGet, "/api/users", nil))
			rec := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
