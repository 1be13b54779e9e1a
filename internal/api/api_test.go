package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/erazemk/liquorlocker/internal/auth"
	"github.com/erazemk/liquorlocker/internal/db"
	"github.com/erazemk/liquorlocker/internal/model"
	"github.com/erazemk/liquorlocker/internal/store"
)

const testSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testSecret, Options{}))
	t.Cleanup(server.Close)

	key, err := auth.GenerateAPIKey(testSecret, "test", 0)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return server, key
}

func keyRequest(method, url, key string, body any) (*http.Request, error) {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			bodyReader = strings.NewReader(b)
		default:
			data, _ := json.Marshal(b)
			bodyReader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	if key != "" {
		req.Header.Set(APIKeyHeader, key)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func do(t *testing.T, method, url, key string, body any) (*http.Response, string) {
	t.Helper()
	req, err := keyRequest(method, url, key, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func TestBottlesAPIFlow(t *testing.T) {
	server, key := setupTestServer(t)

	resp, body := do(t, "POST", server.URL+"/bottles", key, map[string]any{
		"name":          "  Talisker 10  ",
		"opened":        true,
		"open_date":     nil,
		"purchase_date": "2024-02-14",
		"price":         42.5,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created model.Bottle
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decoding bottle: %v", err)
	}
	if created.Name != "Talisker 10" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}
	if created.OpenDate == nil || *created.OpenDate != model.Today() {
		t.Errorf("expected open date today, got %v", created.OpenDate)
	}

	resp, body = do(t, "GET", server.URL+"/bottles", key, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var bottles []model.Bottle
	json.Unmarshal([]byte(body), &bottles)
	if len(bottles) != 1 {
		t.Errorf("expected 1 bottle, got %d", len(bottles))
	}

	in := created.Input()
	in.SetOpened(false, model.Today())
	resp, body = do(t, "PUT", server.URL+"/bottles/"+itoa(created.ID), key, in)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var updated model.Bottle
	json.Unmarshal([]byte(body), &updated)
	if updated.Opened || updated.OpenDate != nil {
		t.Errorf("expected closed bottle without date, got %+v", updated)
	}

	resp, _ = do(t, "DELETE", server.URL+"/bottles/"+itoa(created.ID), key, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp, body = do(t, "DELETE", server.URL+"/bottles/"+itoa(created.ID), key, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if want := "Bottle with ID " + itoa(created.ID) + " not found"; strings.TrimSpace(body) != want {
		t.Errorf("expected %q, got %q", want, body)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	server, key := setupTestServer(t)

	for _, path := range []string{"/bottles", "/mixers", "/fresh", "/favorites"} {
		resp, body := do(t, "GET", server.URL+path, key, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if strings.TrimSpace(body) != "[]" {
			t.Errorf("%s: expected [], got %q", path, body)
		}
	}
}

func TestBadRequests(t *testing.T) {
	server, key := setupTestServer(t)

	resp, body := do(t, "POST", server.URL+"/mixers", key, "{not json")
	if resp.StatusCode != http.StatusBadRequest || strings.TrimSpace(body) != "Invalid JSON" {
		t.Errorf("expected 400 Invalid JSON, got %d %q", resp.StatusCode, body)
	}

	resp, body = do(t, "POST", server.URL+"/fresh", key, map[string]any{"name": "   "})
	if resp.StatusCode != http.StatusBadRequest || strings.TrimSpace(body) != "Name is required." {
		t.Errorf("expected 400 Name is required., got %d %q", resp.StatusCode, body)
	}

	resp, _ = do(t, "GET", server.URL+"/mixers/abc", key, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", resp.StatusCode)
	}

	resp, body = do(t, "PUT", server.URL+"/fresh/42", key, map[string]any{"name": "Orgeat"})
	if resp.StatusCode != http.StatusNotFound || strings.TrimSpace(body) != "Fresh item with ID 42 not found" {
		t.Errorf("expected 404, got %d %q", resp.StatusCode, body)
	}
}

func TestFavoritesAPIFlow(t *testing.T) {
	server, key := setupTestServer(t)

	resp, body := do(t, "POST", server.URL+"/favorites", key, model.Favorite{
		Name:         "Penicillin",
		Ingredients:  model.Ingredients{{Name: "Scotch", Quantity: "2 oz"}},
		Instructions: model.Steps{{Order: 1, Text: "Shake"}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var fav model.Favorite
	json.Unmarshal([]byte(body), &fav)
	if fav.ID == 0 {
		t.Fatal("expected favorite id")
	}

	resp, _ = do(t, "DELETE", server.URL+"/favorites?id="+itoa(int64(fav.ID)), key, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	resp, _ = do(t, "DELETE", server.URL+"/favorites?id=x", key, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := do(t, "GET", server.URL+"/bottles", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", resp.StatusCode)
	}

	forged, _ := auth.GenerateAPIKey("other-secret", "forged", 0)
	resp, _ = do(t, "GET", server.URL+"/bottles", forged, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for forged key, got %d", resp.StatusCode)
	}

	resp, _ = do(t, "GET", server.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for health check, got %d", resp.StatusCode)
	}
}

func TestRevokedKey(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testSecret, Options{}))
	t.Cleanup(server.Close)

	key, _ := auth.GenerateAPIKey(testSecret, "revoked", 0)
	resp, _ := do(t, "GET", server.URL+"/mixers", key, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 before revocation, got %d", resp.StatusCode)
	}

	claims, _ := auth.ValidateAPIKey(testSecret, key)
	if err := store.RevokeKey(context.Background(), database, claims.ID); err != nil {
		t.Fatal(err)
	}

	resp, _ = do(t, "GET", server.URL+"/mixers", key, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after revocation, got %d", resp.StatusCode)
	}
}

func TestOpenMode(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testSecret, Options{Open: true}))
	t.Cleanup(server.Close)

	resp, _ := do(t, "GET", server.URL+"/bottles", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 in open mode, got %d", resp.StatusCode)
	}
}

func TestCORS(t *testing.T) {
	server, key := setupTestServer(t)

	req, _ := keyRequest("OPTIONS", server.URL+"/bottles", "", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("unexpected allow origin %q", got)
	}

	req, _ = keyRequest("GET", server.URL+"/bottles", key, nil)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for unknown origin, got %d", resp.StatusCode)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	database := db.NewTestDB(t)
	reg := prometheus.NewRegistry()
	server := httptest.NewServer(NewRouter(database, testSecret, Options{Open: true, Registry: reg}))
	t.Cleanup(server.Close)

	resp, _ := do(t, "GET", server.URL+"/bottles/7", "", nil)
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "liquorlocker_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/bottles/{id}" && labels["status"] == "404" {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected request counter for /bottles/{id} with status 404")
	}
}

func TestRequestLogNamesAPIKey(t *testing.T) {
	database := db.NewTestDB(t)
	key, err := auth.GenerateAPIKey(testSecret, "bar-cart", 0)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	jti, err := auth.KeyID(key)
	if err != nil {
		t.Fatalf("reading key id: %v", err)
	}

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := LoggingMiddleware(NewMetrics(prometheus.NewRegistry()))(APIKeyMiddleware(testSecret, database)(ok))

	req := httptest.NewRequest("GET", "/bottles", nil)
	req.Header.Set(APIKeyHeader, key)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	out := logs.String()
	if !strings.Contains(out, "key_id="+jti) || !strings.Contains(out, "key_label=bar-cart") {
		t.Errorf("expected key id and label in request log, got %q", out)
	}

	logs.Reset()
	req = httptest.NewRequest("GET", "/bottles", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if strings.Contains(logs.String(), "key_id=") {
		t.Errorf("unauthenticated request should not log a key id, got %q", logs.String())
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
