package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldsgard/divvy/internal/models"
	"github.com/avaldsgard/divvy/tests/common"
)

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), "body: %s", body)
}

func TestHoldingLifecycle(t *testing.T) {
	env := common.NewEnv(t)

	// Create a holding manually.
	resp, err := env.HTTPPut("/api/holdings/ACME", map[string]interface{}{
		"company_name":        "Acme Corp",
		"annual_dividend":     4.0,
		"price":               80.0,
		"fifty_two_week_high": 100.0,
		"currency":            "USD",
		"owned":               true,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created models.Holding
	decodeJSON(t, resp, &created)
	assert.Equal(t, "ACME", created.Ticker)
	assert.Equal(t, 95.0, created.TargetPrice)
	assert.Equal(t, 5.0, created.DividendYieldPct)
	assert.Equal(t, 18.75, created.UpsidePct)
	assert.Equal(t, models.RecommendationAccumulate, created.Recommendation)
	assert.Equal(t, models.DividendSourceManual, created.DividendSource)

	// Read it back.
	resp, err = env.HTTPGet("/api/holdings/acme")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.Holding
	decodeJSON(t, resp, &fetched)
	assert.Equal(t, created, fetched)

	// List includes it.
	resp, err = env.HTTPGet("/api/holdings")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Holdings []models.Holding `json:"holdings"`
		Count    int              `json:"count"`
	}
	decodeJSON(t, resp, &list)
	require.Equal(t, 1, list.Count)

	// Delete it.
	resp, err = env.HTTPDelete("/api/holdings/ACME")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = env.HTTPGet("/api/holdings/ACME")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSyncEndToEnd(t *testing.T) {
	env := common.NewEnv(t)

	// Seed two rows through the manual path.
	for _, ticker := range []string{"GOOD", "BAD"} {
		resp, err := env.HTTPPut("/api/holdings/"+ticker, map[string]interface{}{
			"annual_dividend": 2.0,
			"price":           50.0,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// Only GOOD gets a quote; BAD's fetch fails with an empty result.
	env.Quotes.Set("GOOD", `{
		"symbol": "GOOD",
		"regularMarketPrice": 80.0,
		"fiftyTwoWeekHigh": 100.0,
		"trailingAnnualDividendRate": 4.0,
		"currency": "USD",
		"longName": "Good Corp"
	}`)

	resp, err := env.HTTPPost("/api/sync", map[string]interface{}{})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report models.SyncReport
	decodeJSON(t, resp, &report)
	assert.Equal(t, []string{"GOOD"}, report.Succeeded)
	assert.Equal(t, []string{"BAD"}, report.Failed)
	assert.NotEmpty(t, report.RunID)

	// The refreshed row reflects the fetch; the failed row is untouched.
	resp, err = env.HTTPGet("/api/holdings/GOOD")
	require.NoError(t, err)
	var good models.Holding
	decodeJSON(t, resp, &good)
	assert.Equal(t, 80.0, good.Price)
	assert.Equal(t, "Good Corp", good.CompanyName)
	assert.Equal(t, 18.75, good.UpsidePct)
	assert.Equal(t, models.DividendSourceFetched, good.DividendSource)

	resp, err = env.HTTPGet("/api/holdings/BAD")
	require.NoError(t, err)
	var bad models.Holding
	decodeJSON(t, resp, &bad)
	assert.Equal(t, 50.0, bad.Price)
	assert.Equal(t, 2.0, bad.AnnualDividend)
}

func TestListFilterByRecommendation(t *testing.T) {
	env := common.NewEnv(t)

	// Upside 18.75 -> accumulate.
	resp, err := env.HTTPPut("/api/holdings/UP", map[string]interface{}{
		"price":               80.0,
		"fifty_two_week_high": 100.0,
	})
	require.NoError(t, err)
	resp.Body.Close()

	// No 52-week high: target 0, upside -100 -> sell.
	resp, err = env.HTTPPut("/api/holdings/FLAT", map[string]interface{}{
		"price": 50.0,
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = env.HTTPGet("/api/holdings?recommendation=accumulate")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Holdings []models.Holding `json:"holdings"`
		Count    int              `json:"count"`
	}
	decodeJSON(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "UP", list.Holdings[0].Ticker)
}
