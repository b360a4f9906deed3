package rpc_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"github.com/sentium-labs/bridge-optimizer/optimizer/nn"
	"github.com/sentium-labs/bridge-optimizer/optimizer/router"
	"github.com/sentium-labs/bridge-optimizer/optimizer/rpc"
	"github.com/zeebo/assert"
)

var twoHopRoute = models.Route{
	SourceChain: "ethereum",
	TargetChain: "polkadot",
	Hops: []models.Hop{
		{FromChain: "ethereum", ToChain: "sentium", BridgeType: models.BridgeNative, Cost: 50000, TimeMs: 5000},
		{FromChain: "sentium", ToChain: "polkadot", BridgeType: models.BridgeNative, Cost: 30000, TimeMs: 3000},
	},
	EstimatedCost:   80000,
	EstimatedTimeMs: 8000,
	ConfidenceScore: 0.97,
}

var oneHopRoute = models.Route{
	SourceChain: "ethereum",
	TargetChain: "polkadot",
	Hops: []models.Hop{
		{FromChain: "ethereum", ToChain: "polkadot", BridgeType: models.BridgeLiquidity, Cost: 80000, TimeMs: 8000},
	},
	EstimatedCost:   80000,
	EstimatedTimeMs: 8000,
	ConfidenceScore: 0.90,
}

func newTestServer() *rpc.Server {
	o := router.New(models.DefaultRegistry(), router.WithScorerOptions(nn.WithSeed(1)))
	cfg := rpc.DefaultServerConfig()
	cfg.EnableMetrics = false
	return rpc.NewServer(cfg, o)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScoreEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv.Handler(), "/v1/score", rpc.ScoreRequest{Route: twoHopRoute})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp rpc.ScoreResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Same route, same parameters: the score is stable across requests.
	rec2 := postJSON(t, srv.Handler(), "/v1/score", rpc.ScoreRequest{Route: twoHopRoute})
	var resp2 rpc.ScoreResponse
	assert.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp2))
	assert.Equal(t, resp.Score, resp2.Score)
}

func TestScoreEndpointInvalidRoute(t *testing.T) {
	srv := newTestServer()

	bad := twoHopRoute
	bad.Hops = nil
	rec := postJSON(t, srv.Handler(), "/v1/score", rpc.ScoreRequest{Route: bad})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOptimizeEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv.Handler(), "/v1/optimize",
		rpc.OptimizeRequest{Routes: []models.Route{twoHopRoute, oneHopRoute}})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp rpc.OptimizeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, len(resp.Route.Hops) >= 1)
}

func TestOptimizeEndpointEmpty(t *testing.T) {
	srv := newTestServer()

	rec := postJSON(t, srv.Handler(), "/v1/optimize", rpc.OptimizeRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeEndpointBadBody(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
