package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/youtube-dashboard-go/internal/auth"
	"github.com/kapu/youtube-dashboard-go/internal/domain"
	dasherr "github.com/kapu/youtube-dashboard-go/pkg/errors"
)

type fakeService struct {
	payload    *domain.DashboardPayload
	payloadErr error
	syncResult *domain.SyncResult
	syncErr    error
}

func (f *fakeService) Sync(context.Context) (*domain.SyncResult, error) {
	return f.syncResult, f.syncErr
}

func (f *fakeService) DashboardData(context.Context) (*domain.DashboardPayload, error) {
	return f.payload, f.payloadErr
}

func newTestServer(service DashboardService) (*Server, string) {
	tokens := auth.NewTokenService("dashboard-pass", "test-secret", zap.NewNop())
	srv := New(service, tokens, zap.NewNop())
	token, err := tokens.Login("dashboard-pass")
	if err != nil {
		panic(err)
	}
	return srv, token
}

func doRequest(srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAuthIssuesToken(t *testing.T) {
	srv, _ := newTestServer(&fakeService{})

	rec := doRequest(srv, http.MethodPost, "/api/auth", "", `{"password":"dashboard-pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token")
	}
}

func TestAuthRejectsWrongPassword(t *testing.T) {
	srv, _ := newTestServer(&fakeService{})

	rec := doRequest(srv, http.MethodPost, "/api/auth", "", `{"password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestVerifyAuth(t *testing.T) {
	srv, token := newTestServer(&fakeService{})

	rec := doRequest(srv, http.MethodPost, "/api/verify-auth", token, "")
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}

	rec = doRequest(srv, http.MethodPost, "/api/verify-auth", "bogus", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus token: status = %d, want 401", rec.Code)
	}

	rec = doRequest(srv, http.MethodPost, "/api/verify-auth", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", rec.Code)
	}
}

func TestVerifyAuthBodyToken(t *testing.T) {
	srv, token := newTestServer(&fakeService{})

	// the token travels in the JSON body, no Authorization header
	rec := doRequest(srv, http.MethodPost, "/api/verify-auth", "", `{"token":"`+token+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("body token: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Valid {
		t.Error("valid = false, want true")
	}

	rec = doRequest(srv, http.MethodPost, "/api/verify-auth", "", `{"token":"bogus"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus body token: status = %d, want 401", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Valid {
		t.Error("valid = true for bogus token, want false")
	}
}

func TestDashboardDataRequiresToken(t *testing.T) {
	service := &fakeService{
		payload: &domain.DashboardPayload{
			Current: &domain.Snapshot{
				Date:    "2024-05-10",
				Summary: domain.Summary{TotalViews: 6000, TotalVideos: 2, AvgViews: 3000},
			},
			Trends:      []domain.TrendPoint{{Date: "2024-05-10", Views: 6000}},
			LastUpdated: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		},
	}
	srv, token := newTestServer(service)

	rec := doRequest(srv, http.MethodGet, "/api/dashboard-data", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: status = %d, want 401", rec.Code)
	}

	rec = doRequest(srv, http.MethodGet, "/api/dashboard-data", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var payload domain.DashboardPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Current == nil || payload.Current.Summary.TotalViews != 6000 {
		t.Errorf("unexpected payload: %+v", payload.Current)
	}
}

func TestDashboardDataNotReady(t *testing.T) {
	service := &fakeService{payloadErr: dasherr.NewNotReadyError("no snapshots stored")}
	srv, token := newTestServer(service)

	rec := doRequest(srv, http.MethodGet, "/api/dashboard-data", token, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "NOT_READY" {
		t.Errorf("code = %q, want NOT_READY", resp.Code)
	}
}

func TestSyncSuccess(t *testing.T) {
	service := &fakeService{
		syncResult: &domain.SyncResult{
			Success:         true,
			VideosProcessed: 2,
			TotalViews:      6000,
			LastUpdated:     time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		},
	}
	srv, token := newTestServer(service)

	rec := doRequest(srv, http.MethodPost, "/api/sync-youtube", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result domain.SyncResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || result.VideosProcessed != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSyncFailureShape(t *testing.T) {
	service := &fakeService{
		syncErr: dasherr.NewUpstreamError("failed to fetch channel data", nil),
	}
	srv, token := newTestServer(service)

	rec := doRequest(srv, http.MethodPost, "/api/sync-youtube", token, "")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("success should be false")
	}
	if resp.Error == "" {
		t.Error("error message missing")
	}
}

func TestSyncRequiresToken(t *testing.T) {
	srv, _ := newTestServer(&fakeService{})

	rec := doRequest(srv, http.MethodPost, "/api/sync-youtube", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
