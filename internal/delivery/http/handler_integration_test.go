package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/calorietrack/backend/config"
	"github.com/calorietrack/backend/internal/domain"
	"github.com/calorietrack/backend/internal/infrastructure/nlparser"
	"github.com/calorietrack/backend/internal/infrastructure/spoonacular"
	"github.com/calorietrack/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// fakeUpstream simulates the ingredient API: a search page of three
// ingredients plus detail responses for each.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/food/ingredients/search":
			fmt.Fprint(w, `{"results":[
				{"id":1,"name":"apple","image":"apple.jpg"},
				{"id":2,"name":"banana","image":"banana.jpg"},
				{"id":3,"name":"cherry","image":"cherry.jpg"}
			],"totalResults":3}`)
		case strings.HasSuffix(r.URL.Path, "/information"):
			var id int
			fmt.Sscanf(r.URL.Path, "/food/ingredients/%d/information", &id)
			fmt.Fprintf(w, `{
				"id": %d, "name": "ingredient-%d", "amount": 100, "unit": "g",
				"nutrition": {"nutrients": [
					{"name": "Calories", "amount": %d, "unit": "kcal"},
					{"name": "Protein", "amount": 1.5, "unit": "g"}
				]}
			}`, id, id, id*100)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// setupTestRouter wires real clients and services against the given
// upstream URLs.
func setupTestRouter(ingredientURL, nlURL string) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"*"},
		},
	}

	client := spoonacular.NewClient("test-api-key", ingredientURL)
	client.SetPageSize(100)

	pipeline := usecase.NewEnrichmentPipeline(client, nil, usecase.EnrichConfig{
		MaxAttempts:    3,
		BaseGap:        time.Millisecond,
		BatchPause:     time.Millisecond,
		BatchEvery:     50,
		RetryBase429:   time.Millisecond,
		RetryBaseOther: time.Millisecond,
	})
	search := usecase.NewSearchService(client, pipeline)
	nlClient := nlparser.NewClient(nlURL, 5*time.Second)

	handler := NewHandler(search, pipeline, nlClient)
	return SetupRouter(cfg, handler)
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter("http://unused", "http://unused")

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

// decodeStream splits an NDJSON body into its typed lines.
func decodeStream(t *testing.T, body string) (results []domain.EnrichedFoodItem, items []domain.EnrichedFoodItem) {
	t.Helper()

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var parsed struct {
			Type    string                    `json:"type"`
			Results []domain.EnrichedFoodItem `json:"results"`
			Item    *domain.EnrichedFoodItem  `json:"item"`
		}
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			t.Fatalf("bad NDJSON line %q: %v", line, err)
		}
		switch parsed.Type {
		case "results":
			results = parsed.Results
		case "item":
			items = append(items, *parsed.Item)
		default:
			t.Fatalf("unknown stream line type %q", parsed.Type)
		}
	}
	return results, items
}

func TestSearchEndpoint_StreamsLightThenEnriched(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	router := setupTestRouter(upstream.URL, "http://unused")

	req, _ := http.NewRequest("POST", "/api/v1/ingredients/search",
		strings.NewReader(`{"query": "fruit", "pages": 1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Content-Type = %q, want application/x-ndjson", ct)
	}

	results, items := decodeStream(t, w.Body.String())

	if len(results) != 3 {
		t.Fatalf("light results = %d, want 3", len(results))
	}
	if results[0].EnergyKcal != nil {
		t.Error("light result carries nutrition before enrichment")
	}

	if len(items) != 3 {
		t.Fatalf("enriched items = %d, want 3", len(items))
	}
	for i, wantID := range []int{1, 2, 3} {
		if items[i].ID != wantID {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, wantID)
		}
		if items[i].EnergyKcal == nil || *items[i].EnergyKcal != wantID*100 {
			t.Errorf("items[%d] energy = %v, want %d", i, items[i].EnergyKcal, wantID*100)
		}
	}
}

func TestSearchEndpoint_EmptyQuery(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer upstream.Close()

	router := setupTestRouter(upstream.URL, "http://unused")

	req, _ := http.NewRequest("POST", "/api/v1/ingredients/search",
		strings.NewReader(`{"query": "   ", "pages": 2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	results, items := decodeStream(t, w.Body.String())
	if len(results) != 0 || len(items) != 0 {
		t.Errorf("got %d results, %d items; want none for empty query", len(results), len(items))
	}
	if calls != 0 {
		t.Errorf("upstream calls = %d, want 0", calls)
	}
}

func TestSearchEndpoint_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, "quota exhausted")
	}))
	defer upstream.Close()

	router := setupTestRouter(upstream.URL, "http://unused")

	req, _ := http.NewRequest("POST", "/api/v1/ingredients/search",
		strings.NewReader(`{"query": "banana", "pages": 1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "402") {
		t.Errorf("body %q does not surface the upstream status", w.Body.String())
	}
}

func TestEnrichEndpoint_StreamsItems(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	router := setupTestRouter(upstream.URL, "http://unused")

	req, _ := http.NewRequest("POST", "/api/v1/ingredients/enrich",
		strings.NewReader(`{"ids": [2, 1]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	_, items := decodeStream(t, w.Body.String())
	if len(items) != 2 {
		t.Fatalf("enriched items = %d, want 2", len(items))
	}
	if items[0].ID != 2 || items[1].ID != 1 {
		t.Errorf("item order = [%d, %d], want input order [2, 1]", items[0].ID, items[1].ID)
	}
}

func TestParseEndpoint(t *testing.T) {
	nlUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"intent": "log",
			"entities": {"items": [{"name": "banana", "quantity": 1, "unit": "pcs"}], "meal": "snack"},
			"missing_fields": []
		}`)
	}))
	defer nlUpstream.Close()

	router := setupTestRouter("http://unused", nlUpstream.URL)

	req, _ := http.NewRequest("POST", "/api/v1/nl/parse",
		strings.NewReader(`{"text": "a banana as a snack"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var parsed domain.NLCommandResponse
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if parsed.Intent != "log" {
		t.Errorf("intent = %q, want log", parsed.Intent)
	}
	if len(parsed.Entities.Items) != 1 || parsed.Entities.Items[0].Name != "banana" {
		t.Errorf("items = %+v, want one banana", parsed.Entities.Items)
	}
}

func TestParseEndpoint_MissingText(t *testing.T) {
	router := setupTestRouter("http://unused", "http://unused")

	req, _ := http.NewRequest("POST", "/api/v1/nl/parse", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTargetsEndpoint(t *testing.T) {
	router := setupTestRouter("http://unused", "http://unused")

	t.Run("metric units", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/v1/profile/targets", strings.NewReader(`{
			"sex": "male", "age": 30, "activity": "moderate",
			"weightKg": 80, "heightCm": 180, "weeklyDeltaKg": -0.5
		}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
		}

		var targets domain.CalorieTargets
		if err := json.Unmarshal(w.Body.Bytes(), &targets); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}

		wantBMR := 10*80.0 + 6.25*180 - 5*30 + 5
		if targets.BMR != wantBMR {
			t.Errorf("bmr = %v, want %v", targets.BMR, wantBMR)
		}
		if targets.TDEE != wantBMR*1.55 {
			t.Errorf("tdee = %v, want %v", targets.TDEE, wantBMR*1.55)
		}
	})

	t.Run("imperial units are converted", func(t *testing.T) {
		// 176.37 lb ~= 80 kg, 5'10.866" ~= 180 cm
		req, _ := http.NewRequest("POST", "/api/v1/profile/targets", strings.NewReader(`{
			"sex": "male", "age": 30, "activity": "moderate",
			"weightLb": 176.369809744, "heightFeet": 5, "heightInches": 10.866141732283463
		}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
		}

		var targets domain.CalorieTargets
		json.Unmarshal(w.Body.Bytes(), &targets)

		wantBMR := 10*80.0 + 6.25*180 - 5*30 + 5
		if diff := targets.BMR - wantBMR; diff > 0.01 || diff < -0.01 {
			t.Errorf("bmr = %v, want ~%v", targets.BMR, wantBMR)
		}
	})

	t.Run("unsupported sex is rejected", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/v1/profile/targets", strings.NewReader(`{
			"sex": "robot", "age": 30, "activity": "moderate",
			"weightKg": 80, "heightCm": 180
		}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing weight is rejected", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/api/v1/profile/targets", strings.NewReader(`{
			"sex": "male", "age": 30, "activity": "moderate", "heightCm": 180
		}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}
