package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energy-market/internal/api/handlers"
	"energy-market/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallConfig = `{"market":{"time_slots_per_day":4,"rounds_per_slot":3,"days":2},"participants":{"num_consumers":3,"num_prosumers":3,"battery_capacity":1},"battery_policy":"CDA_bat","seed":5}`

func newTestRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Limits == (handlers.Limits{}) {
		opts.Limits = handlers.DefaultLimits()
	}
	return NewRouter(opts)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t, Options{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestListStrategies(t *testing.T) {
	w := do(t, newTestRouter(t, Options{}), http.MethodGet, "/api/v1/strategies", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.StrategiesResponse](t, w)
	require.Len(t, resp.Strategies, 2)
	assert.Equal(t, "zi", resp.Strategies[0].Name)
	assert.Equal(t, "eob", resp.Strategies[1].Name)
	assert.Equal(t, []string{"none", "bat_CDA", "CDA_bat"}, resp.BatteryPolicies)
	assert.Equal(t, []string{"rank_paired", "greedy"}, resp.MatchingModes)
}

func TestSimulateThenFetchLedger(t *testing.T) {
	r := newTestRouter(t, Options{})

	w := do(t, r, http.MethodPost, "/api/v1/simulate", `{"config":`+smallConfig+`,"options":{"include_participants":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.SimulateResponse](t, w)
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, "completed", resp.Status)
	assert.Len(t, resp.Participants, 6)
	assert.Nil(t, resp.Ledger)

	w = do(t, r, http.MethodGet, "/api/v1/simulate/"+resp.ID+"/ledger", "")
	require.Equal(t, http.StatusOK, w.Code)
	ledger := decode[models.LedgerResponse](t, w)
	assert.Equal(t, resp.ID, ledger.ID)
	assert.Len(t, ledger.Ledger, resp.Summary.Trades)
}

func TestSimulateIsDeterministic(t *testing.T) {
	r := newTestRouter(t, Options{})
	body := `{"config":` + smallConfig + `,"options":{"include_ledger":true}}`

	a := decode[models.SimulateResponse](t, do(t, r, http.MethodPost, "/api/v1/simulate", body))
	b := decode[models.SimulateResponse](t, do(t, r, http.MethodPost, "/api/v1/simulate", body))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Summary, b.Summary)
	assert.Equal(t, a.Ledger, b.Ledger)
}

func TestSimulateRejectsBadConfig(t *testing.T) {
	r := newTestRouter(t, Options{})
	cases := map[string]struct {
		body string
		code string
	}{
		"bounds":       {`{"config":{"market":{"min_price":0.6,"max_price":0.5}}}`, "INVALID_CONFIG"},
		"strategy":     {`{"config":{"strategy":{"name":"sniper"}}}`, "INVALID_CONFIG"},
		"otc":          {`{"config":{"participants":{"num_consumers":1,"num_prosumers":1},"otc_contracts":[{"buyer":"C2","seller":"P1","quantity":1,"price":0.4}]}}`, "INVALID_CONFIG"},
		"profile file": {`{"config":{"participants":{"profile_file":"/etc/passwd"}}}`, "INVALID_CONFIG"},
		"limit":        {`{"config":{"market":{"days":400}}}`, "LIMIT_EXCEEDED"},
		"json":         {`{"config":`, "INVALID_REQUEST"},
	}
	for name, tc := range cases {
		w := do(t, r, http.MethodPost, "/api/v1/simulate", tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		resp := decode[models.ErrorResponse](t, w)
		assert.Equal(t, tc.code, resp.Error.Code, name)
	}
}

func TestLedgerNotFound(t *testing.T) {
	w := do(t, newTestRouter(t, Options{}), http.MethodGet, "/api/v1/simulate/nope/ledger", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestCompare(t *testing.T) {
	r := newTestRouter(t, Options{})
	body := `{
		"base_config": ` + smallConfig + `,
		"variations": [
			{"name": "zi", "config": {"strategy": {"name": "zi"}}},
			{"name": "eob", "config": {"strategy": {"name": "eob"}}},
			{"name": "broken", "config": {"battery_policy": "later"}}
		]
	}`
	w := do(t, r, http.MethodPost, "/api/v1/simulate/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.CompareResponse](t, w)
	require.Len(t, resp.Comparison, 3)
	assert.Equal(t, 1, resp.Comparison[0].Rank)
	assert.Equal(t, 2, resp.Comparison[1].Rank)
	assert.GreaterOrEqual(t, resp.Comparison[0].Summary.Indexes.CommunityWelfare, resp.Comparison[1].Summary.Indexes.CommunityWelfare)
	assert.Equal(t, "broken", resp.Comparison[2].Name)
	assert.Equal(t, 0, resp.Comparison[2].Rank)
	assert.NotEmpty(t, resp.Comparison[2].Error)
}

func TestCompareRequiresVariations(t *testing.T) {
	w := do(t, newTestRouter(t, Options{}), http.MethodPost, "/api/v1/simulate/compare", `{"base_config":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareRejectsTooManyVariations(t *testing.T) {
	lim := handlers.DefaultLimits()
	lim.MaxVariations = 2
	r := newTestRouter(t, Options{Limits: lim})

	var vs []string
	for i := 0; i < 3; i++ {
		vs = append(vs, fmt.Sprintf(`{"name":"v%d","config":{"seed":%d}}`, i, i))
	}
	body := `{"base_config":` + smallConfig + `,"variations":[` + strings.Join(vs, ",") + `]}`

	w := do(t, r, http.MethodPost, "/api/v1/simulate/compare", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "LIMIT_EXCEEDED", decode[models.ErrorResponse](t, w).Error.Code)

	body = `{"base_config":` + smallConfig + `,"variations":[` + strings.Join(vs[:2], ",") + `]}`
	w = do(t, r, http.MethodPost, "/api/v1/simulate/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[models.CompareResponse](t, w).Comparison, 2)
}

func TestCompareVariationCanSetZero(t *testing.T) {
	r := newTestRouter(t, Options{})
	body := `{
		"base_config": {"market":{"min_price":0.2,"max_price":0.5,"time_slots_per_day":4,"rounds_per_slot":3},"participants":{"num_consumers":2,"num_prosumers":4},"seed":5},
		"variations": [
			{"name": "tariff", "config": {}},
			{"name": "free-export", "config": {"market": {"min_price": 0}}}
		]
	}`
	w := do(t, r, http.MethodPost, "/api/v1/simulate/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.CompareResponse](t, w)
	require.Len(t, resp.Comparison, 2)
	byName := map[string]models.ComparisonResult{}
	for _, c := range resp.Comparison {
		byName[c.Name] = c
	}
	free := byName["free-export"]
	assert.Empty(t, free.Error)
	assert.Equal(t, 0.0, free.Summary.ProviderSell)
	assert.Equal(t, 0.0, free.Summary.TraditionalSellers)
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t, Options{RateLimit: 0.001, RateBurst: 1})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/strategies", "").Code)
	w := do(t, r, http.MethodGet, "/api/v1/strategies", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decode[models.ErrorResponse](t, w).Error.Code)

	// health is outside the limited group
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, Options{CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, Options{}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/simulate/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(smallConfig)))

	type frame struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	slots := 0
	for {
		var f frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type == "slot" {
			var report struct {
				Day  int `json:"day"`
				Slot int `json:"slot"`
			}
			require.NoError(t, json.Unmarshal(f.Data, &report))
			assert.Equal(t, slots/4, report.Day)
			assert.Equal(t, slots%4, report.Slot)
			slots++
			continue
		}
		require.Equal(t, "summary", f.Type, string(f.Data))
		var summary models.SimulateResponse
		require.NoError(t, json.NewDecoder(bytes.NewReader(f.Data)).Decode(&summary))
		assert.Equal(t, "completed", summary.Status)
		break
	}
	assert.Equal(t, 8, slots)
}

func TestStreamRejectsBadConfig(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, Options{}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/simulate/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"market": map[string]any{"min_price": 0.9, "max_price": 0.1}}))

	var msg struct {
		Type string             `json:"type"`
		Data models.ErrorDetail `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "INVALID_CONFIG", msg.Data.Code)
}
