package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/roi-forecast/internal/session"
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

const providerExample = `{"overheadCosts":5000,"laborExpenses":10000,"marketingSpend":3000,"revenuePerJob":7500,
"jobsPerMonth":8,"closingRate":40,"leadCost":100,"otherExpenses":1000}`

func newTestHandler(opts Options) http.Handler {
	return NewHandler(zap.NewNop(), opts)
}

func do(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleHomeowner(t *testing.T) {
	h := newTestHandler(Options{})
	body := `{"installationCost":"$20,000","annualSavings":2400,"maintenanceFee":"200",
"interestRate":5,"loanTerm":0,"energyPriceIncrease":3,"rebatesAndIncentives":5000}`

	rr := do(h, http.MethodPost, "/api/homeowner", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("expected cache miss on first request, got %q", got)
	}

	var resp homeownerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	require.NotNil(t, resp.NetCost)
	assert.InDelta(t, 15000, *resp.NetCost, 0.001)
	assert.Len(t, resp.YearlyProjections, constants.HomeownerProjectionYears)
	assert.InDelta(t, 20000, resp.Input.InstallationCost, 0.001)
	assert.NotEmpty(t, resp.Warnings)

	again := do(h, http.MethodPost, "/api/homeowner", body)
	if got := again.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("expected cache hit on repeat request, got %q", got)
	}
	assert.Equal(t, rr.Body.String(), again.Body.String())
}

func TestHandleHomeownerUndefinedROIIsNull(t *testing.T) {
	h := newTestHandler(Options{})
	rr := do(h, http.MethodPost, "/api/homeowner", `{"installationCost":0,"annualSavings":1200}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	v, present := raw["firstYearROI"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestHandleProvider(t *testing.T) {
	h := newTestHandler(Options{})
	rr := do(h, http.MethodPost, "/api/provider", providerExample)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp providerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.MonthlyProfit)
	assert.InDelta(t, 39000, *resp.MonthlyProfit, 0.001)
	require.NotNil(t, resp.MonthlyROI)
	assert.InDelta(t, 185.714, *resp.MonthlyROI, 0.001)
	assert.Len(t, resp.YearlyProjections, constants.ProviderProjectionYears)
}

func TestHandleProviderZeroClosingRate(t *testing.T) {
	h := newTestHandler(Options{})
	rr := do(h, http.MethodPost, "/api/provider", `{"revenuePerJob":5000,"jobsPerMonth":4,"closingRate":0,"leadCost":50}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp providerResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Nil(t, resp.LeadsPerMonth)
	assert.Nil(t, resp.MonthlyLeadCost)
	require.NotNil(t, resp.MonthlyRevenue)
	assert.InDelta(t, 20000, *resp.MonthlyRevenue, 0.001)
}

func TestHandleProviderCSV(t *testing.T) {
	h := newTestHandler(Options{})
	rr := do(h, http.MethodPost, "/api/provider?format=csv", providerExample)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "provider summary")
	assert.Contains(t, rr.Body.String(), "monthly profit,39000.00")

	// JSON and CSV renderings are cached separately.
	rr = do(h, http.MethodPost, "/api/provider", providerExample)
	assert.Equal(t, "MISS", rr.Header().Get("X-Cache"))
}

func TestHandleQuote(t *testing.T) {
	h := newTestHandler(Options{})

	tests := []struct {
		name   string
		body   string
		niche  quote.Niche
		series int
	}{
		{
			name:   "solar",
			body:   `{"niche":"solar","input":{"systemSizeKW":8,"monthlyBill":"$200","roofType":"asphalt","shading":"none"}}`,
			niche:  quote.NicheSolar,
			series: constants.QuoteSeriesYears,
		},
		{
			name:   "hvac",
			body:   `{"niche":"hvac","input":{"squareFootage":2000,"systemType":"heat_pump","efficiency":"high","currentMonthlyEnergyCost":250}}`,
			niche:  quote.NicheHVAC,
			series: constants.QuoteSeriesYears,
		},
		{
			name:   "remodeling",
			body:   `{"niche":"remodel","input":{"projectType":"kitchen","squareFootage":200,"quality":"mid-range"}}`,
			niche:  quote.NicheRemodeling,
			series: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(h, http.MethodPost, "/api/quote", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp quoteResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.niche, resp.Niche)
			assert.Len(t, resp.SavingsSeries, tt.series)
			assert.NotEmpty(t, resp.Insights)
			assert.NotEmpty(t, resp.CostBreakdown)
			if tt.niche == quote.NicheRemodeling {
				assert.Nil(t, resp.PaybackPeriod)
			} else {
				assert.NotNil(t, resp.PaybackPeriod)
			}
		})
	}
}

func TestHandleQuoteErrors(t *testing.T) {
	h := newTestHandler(Options{})

	tests := map[string]string{
		"missing niche and session": `{"input":{"systemSizeKW":8}}`,
		"unknown niche":             `{"niche":"roofing","input":{}}`,
		"unknown option":            `{"niche":"solar","input":{"roofType":"thatch"}}`,
		"malformed json":            `{"niche":`,
		"array body":                `[1,2]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rr := do(h, http.MethodPost, "/api/quote", body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestQuoteUsesSessionNiche(t *testing.T) {
	sessions := session.NewStore()
	sess, err := sessions.Create("pat@example.com", "Pat", quote.NicheHVAC)
	require.NoError(t, err)
	h := newTestHandler(Options{Sessions: sessions})

	rr := do(h, http.MethodPost, "/api/quote", `{"input":{"squareFootage":1500}}`, constants.SessionHeader, sess.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, quote.NicheHVAC, resp.Niche)

	rr = do(h, http.MethodPost, "/api/quote", `{"input":{}}`, constants.SessionHeader, "no-such-session")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleAmortization(t *testing.T) {
	h := newTestHandler(Options{})

	rr := do(h, http.MethodPost, "/api/amortization", `{"principal":12000,"interestRate":0,"termYears":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp amortizationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.MonthlyPayment)
	assert.InDelta(t, 1000, *resp.MonthlyPayment, 0.001)
	assert.Len(t, resp.Schedule, 12)
	assert.InDelta(t, 0, resp.Schedule[11].RemainingPrincipal, 0.001)

	rr = do(h, http.MethodPost, "/api/amortization", `{"principal":12000,"interestRate":5,"termYears":0}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestHandler(Options{})

	rr := do(h, http.MethodPost, "/api/session", `{"email":"pat@example.com","name":"Pat","niche":"remodeling"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created session.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, quote.NicheRemodeling, created.Niche)
	require.NotEmpty(t, created.ID)

	rr = do(h, http.MethodGet, "/api/session/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodPut, "/api/session/"+created.ID+"/niche", `{"niche":"solar"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated session.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, quote.NicheSolar, updated.Niche)

	rr = do(h, http.MethodPut, "/api/session/"+created.ID+"/niche", `{"niche":"plumbing"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(h, http.MethodDelete, "/api/session/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(h, http.MethodGet, "/api/session/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(h, http.MethodPut, "/api/session/"+created.ID+"/niche", `{"niche":"solar"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateSessionRequiresEmail(t *testing.T) {
	h := newTestHandler(Options{})
	rr := do(h, http.MethodPost, "/api/session", `{"name":"Pat"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleExportXLSX(t *testing.T) {
	h := newTestHandler(Options{})
	body := `{"homeowner":{"installationCost":15000,"annualSavings":2400,"maintenanceFee":200},
"provider":` + providerExample + `,
"quotes":[{"name":"kitchen","niche":"remodeling","input":{"projectType":"kitchen","squareFootage":200}}]}`

	rr := do(h, http.MethodPost, "/api/export/xlsx", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))

	f, err := xlsx.OpenBinary(rr.Body.Bytes())
	require.NoError(t, err)
	for _, name := range []string{"homeowner summary", "provider projection", "quotes"} {
		_, ok := f.Sheet[name]
		assert.True(t, ok, "missing sheet %q", name)
	}

	rr = do(h, http.MethodPost, "/api/export/xlsx", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(h, http.MethodPost, "/api/export/xlsx", `{"quotes":{"niche":"solar"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestTooLarge(t *testing.T) {
	h := newTestHandler(Options{MaxUploadSize: 16})
	rr := do(h, http.MethodPost, "/api/provider", providerExample)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(Options{RateLimit: RateLimitConfig{RequestsPerSecond: 1, Burst: 1}})

	first := do(h, http.MethodGet, "/api/version", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(h, http.MethodGet, "/api/version", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	health := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(Options{})
	do(h, http.MethodPost, "/api/provider", providerExample)

	rr := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `roi_forecast_calculations_total{calculator="provider",outcome="ok"} 1`)
	assert.Contains(t, rr.Body.String(), `roi_forecast_cache_lookups_total{result="miss"} 1`)
}

func TestHandleVersion(t *testing.T) {
	h := newTestHandler(Options{Version: " 1.2.3 "})
	rr := do(h, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "1.2.3", resp["version"])

	rr = do(newTestHandler(Options{}), http.MethodGet, "/api/version", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "dev", resp["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(Options{})
	rr := do(h, http.MethodGet, "/api/homeowner", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestNewHandlerFromConfig(t *testing.T) {
	ctx := context.Background()
	h, closer, err := NewHandlerFromConfig(ctx, zap.NewNop(), DefaultConfig(), "test")
	require.NoError(t, err)

	rr := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, closer.Close())

	cfg := DefaultConfig()
	cfg.Cache.Backend = "memcached"
	_, _, err = NewHandlerFromConfig(ctx, zap.NewNop(), cfg, "test")
	assert.Error(t, err)
}

func TestNewHandlerFromConfigUnreachableRedis(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := DefaultConfig()
	cfg.Cache.Backend = "redis"
	cfg.Cache.RedisAddr = addr

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err = NewHandlerFromConfig(ctx, zap.NewNop(), cfg, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestNichesEndpoint(t *testing.T) {
	h := newTestHandler(Options{})

	rr := do(h, http.MethodGet, "/api/niches", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, map[string]string{"niche": "solar", "title": "Solar"}, resp[0])
	assert.Equal(t, "hvac", resp[1]["niche"])
	assert.Equal(t, "Remodeling", resp[2]["title"])
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(Options{AllowedOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/homeowner", bytes.NewReader(nil))
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}
