package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDoRequest_Headers(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"data":[]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger(),
		WithTokenSource(func() string { return "tok-123" }))

	if _, err := c.FarmersByIDs(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("FarmersByIDs() error = %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestDoRequest_NoBearerWhenAnonymous(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"token":"t","data":{"_id":"1","email":"a@b.c","role":"superAdmin"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	if _, err := c.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty for login", gotAuth)
	}
}

func TestLogin_ParsesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/login" {
			t.Errorf("path = %q, want /api/admin/login", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["email"] != "officer@example.org" || req["password"] != "secret" {
			t.Errorf("credentials = %v", req)
		}
		w.Write([]byte(`{
			"token": "jwt-token",
			"data": {
				"_id": "u1",
				"name": "Officer",
				"email": "officer@example.org",
				"role": "talukaOfficer",
				"allocatedTaluka": ["haveli"],
				"verifiers": ["v1", "v2"]
			}
		}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	res, err := c.Login(context.Background(), "officer@example.org", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if res.Token != "jwt-token" {
		t.Errorf("Token = %q", res.Token)
	}
	if string(res.Role) != "talukaOfficer" {
		t.Errorf("Role = %q", res.Role)
	}
	if len(res.Profile.VerifierIDs) != 2 {
		t.Errorf("VerifierIDs = %v, want 2 ids", res.Profile.VerifierIDs)
	}
}

func TestLogin_UnknownRole(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"t","data":{"_id":"1","role":"intruder"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	if _, err := c.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatal("Login() with unknown role must fail")
	}
}

func TestAuthRejection_FiresHookOnce(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"jwt expired"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	hookCalls := 0
	c := NewClient(srv.URL, testLogger(),
		WithAuthRejectHook(func() { hookCalls++ }))

	_, err := c.ListFarmers(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %T, want *AuthError", err)
	}
	if authErr.Message != "jwt expired" {
		t.Errorf("Message = %q", authErr.Message)
	}
	if hookCalls != 1 {
		t.Errorf("hook fired %d times, want 1", hookCalls)
	}
}

func TestForbidden_AlsoUnauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.ListFarmers(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized for 403", err)
	}
}

func TestDuplicateKey_BecomesConflict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"E11000 duplicate key error collection: verifiers index: aadhaarNumber_1 dup key"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.ListVerifiers(context.Background())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %T, want *ConflictError", err)
	}
	if conflict.Field != "aadhaarNumber" {
		t.Errorf("Field = %q, want aadhaarNumber", conflict.Field)
	}
}

func TestServerError_BecomesAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.ListFarmers(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Message != "boom" {
		t.Errorf("Message = %q, want the error field when message is absent", apiErr.Message)
	}
}

func TestTransportFailure_BecomesUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewClient(srv.URL, testLogger())
	_, err := c.ListFarmers(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("error = %v, want ErrUnreachable", err)
	}
}

func TestContextCancellation_Propagates(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListFarmers(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrUnreachable) {
		t.Error("a canceled request must not be classified unreachable")
	}
}

func TestCropEnvelope_UsesCropsKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/crop/all" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"crops":[{"_id":"c1","name":"wheat","farmerId":"f1"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	crops, err := c.ListCrops(context.Background())
	if err != nil {
		t.Fatalf("ListCrops() error = %v", err)
	}
	if len(crops) != 1 || crops[0].ID != "c1" || crops[0].FarmerID != "f1" {
		t.Errorf("crops = %+v", crops)
	}
}

func TestByIDs_PostsIDBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/farmer/by-ids" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var req struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.IDs) != 2 {
			t.Errorf("ids = %v", req.IDs)
		}
		w.Write([]byte(`{"data":[{"_id":"f1"},{"_id":"f2"}]}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	farmers, err := c.FarmersByIDs(context.Background(), []string{"f1", "f2"})
	if err != nil {
		t.Fatalf("FarmersByIDs() error = %v", err)
	}
	if len(farmers) != 2 {
		t.Errorf("got %d farmers, want 2", len(farmers))
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/farmer/count" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"count":42}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	n, err := c.FarmerCount(context.Background())
	if err != nil {
		t.Fatalf("FarmerCount() error = %v", err)
	}
	if n != 42 {
		t.Errorf("count = %d, want 42", n)
	}
}

func TestVerifierMutations_Routes(t *testing.T) {
	t.Parallel()

	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"data":{"_id":"v1","name":"A"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	ctx := context.Background()

	if _, err := c.UpdateVerifier(ctx, "v1", map[string]any{"name": "A"}); err != nil {
		t.Fatalf("UpdateVerifier() error = %v", err)
	}
	if err := c.VerifyVerifier(ctx, "v1"); err != nil {
		t.Fatalf("VerifyVerifier() error = %v", err)
	}
	if err := c.DeleteVerifier(ctx, "v1"); err != nil {
		t.Fatalf("DeleteVerifier() error = %v", err)
	}

	want := []string{
		"PATCH /api/verifier/update/v1",
		"PUT /api/verifier/v1/verify",
		"DELETE /api/verifier/delete/v1",
	}
	if len(seen) != len(want) {
		t.Fatalf("requests = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, seen[i], want[i])
		}
	}
}
