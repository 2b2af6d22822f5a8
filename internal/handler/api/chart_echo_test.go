package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"ChartPull/internal/service/mock"
	"ChartPull/internal/usecase"
	"ChartPull/pkg/logger"
)

func newTestServer(t *testing.T, mockMode bool) *echo.Echo {
	t.Helper()

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	charts, err := usecase.NewChartDataUseCase(mock.New(), nil, nil, nil, nil, usecase.ChartDataConfig{
		Symbol:       "MNQ=F",
		SessionOpen:  "06:30",
		SessionClose: "13:00",
		Timezone:     "America/Los_Angeles",
	})
	if err != nil {
		t.Fatalf("chart usecase: %v", err)
	}

	h := NewChartEchoHandler(log, charts, WithMockResponses(mockMode))
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doGet(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTestEndpoint(t *testing.T) {
	e := newTestServer(t, true)
	rec := doGet(t, e, "/api/test")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "success" {
		t.Errorf("expected status success, got %q", body["status"])
	}
	if body["message"] != "Serverless function is working!" {
		t.Errorf("unexpected message: %q", body["message"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t, true)
	rec := doGet(t, e, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status healthy, got %q", body["status"])
	}
	if body["message"] != "API is working" {
		t.Errorf("unexpected message: %q", body["message"])
	}
	if body["timestamp"] == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestMNQDataMockShape(t *testing.T) {
	e := newTestServer(t, true)
	rec := doGet(t, e, "/api/mnq-data")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string][]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, tf := range []string{"30s", "5m", "15m"} {
		arr, ok := body[tf]
		if !ok {
			t.Fatalf("missing timeframe %q", tf)
		}
		if len(arr) != 0 {
			t.Errorf("expected empty array for %q, got %d entries", tf, len(arr))
		}
	}
	if len(body) != 3 {
		t.Errorf("expected exactly 3 timeframes, got %d", len(body))
	}
}

func TestMNQDataMockIgnoresDate(t *testing.T) {
	e := newTestServer(t, true)

	plain := doGet(t, e, "/api/mnq-data")
	dated := doGet(t, e, "/api/mnq-data?date=not-a-date")

	if dated.Code != http.StatusOK {
		t.Fatalf("expected 200 for malformed date in mock mode, got %d", dated.Code)
	}
	if plain.Body.String() != dated.Body.String() {
		t.Errorf("mock responses differ with date param:\n%s\nvs\n%s", plain.Body.String(), dated.Body.String())
	}
}

func TestMNQDataInvalidDate(t *testing.T) {
	e := newTestServer(t, false)
	rec := doGet(t, e, "/api/mnq-data?date=32-13-2025")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] != "Invalid date format" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestMNQDataNoData(t *testing.T) {
	// The stub source returns zero bars for every day, which must surface
	// as a 404 in provider mode.
	e := newTestServer(t, false)
	rec := doGet(t, e, "/api/mnq-data?date=2025-03-14")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected error message in body")
	}
}
