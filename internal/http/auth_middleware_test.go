package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "case insensitive scheme", header: "bearer tok", want: "tok"},
		{name: "missing header", header: "", wantErr: true},
		{name: "blank header", header: "   ", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcg==", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "too many parts", header: "Bearer one two", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("bearerToken(%q) = %q, want error", tc.header, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("bearerToken(%q) error: %v", tc.header, err)
			}
			if got != tc.want {
				t.Fatalf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}

func TestRequireAuthPropagatesUser(t *testing.T) {
	router := newTestRouter(t)
	token := signupAndLogin(t, router, "Ann", "ann@x.com")

	var sawUserID string
	handler := router.requireAuth(func(w http.ResponseWriter, req *http.Request) {
		if info, ok := authInfoFromContext(req.Context()); ok {
			sawUserID = info.UserID
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if sawUserID == "" {
		t.Fatalf("handler ran without a user id in context")
	}
}

func TestRequireAuthRejections(t *testing.T) {
	router := newTestRouter(t)

	handler := router.requireAuth(func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("handler must not run for rejected requests")
	})

	cases := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "malformed header", header: "Token abc"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}
