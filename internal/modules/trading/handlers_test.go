package trading

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*chi.Mux, *testEnv) {
	env := setupEngine(t)
	handler := NewHandler(env.engine, zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/api/portfolios/{portfolioID}", func(r chi.Router) {
		r.Post("/buy", handler.HandleBuy)
		r.Post("/sell", handler.HandleSell)
		r.Get("/transactions", handler.HandleHistory)
	})
	return router, env
}

func TestHandleBuy_Created(t *testing.T) {
	router, env := setupRouter(t)
	env.resolver.setPrice("AAPL", "190")
	env.newPortfolio(t, "10000")

	body := `{"symbol":"AAPL","asset_name":"Apple Inc.","asset_type":"STOCK","quantity":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/portfolios/1/buy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var result TradeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "8100", result.CashBalance.String())
	require.NotNil(t, result.Position)
	assert.Equal(t, "AAPL", result.Position.Symbol)
}

func TestHandleBuy_InsufficientFundsIs400(t *testing.T) {
	router, env := setupRouter(t)
	env.resolver.setPrice("AAPL", "190")
	env.newPortfolio(t, "100")

	body := `{"symbol":"AAPL","asset_name":"Apple Inc.","asset_type":"STOCK","quantity":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/portfolios/1/buy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient funds")
}

func TestHandleBuy_UpstreamFailureIs502(t *testing.T) {
	router, env := setupRouter(t)
	env.newPortfolio(t, "10000")

	body := `{"symbol":"AAPL","asset_name":"Apple Inc.","asset_type":"STOCK","quantity":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/portfolios/1/buy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleBuy_UnknownPortfolioIs404(t *testing.T) {
	router, env := setupRouter(t)
	env.resolver.setPrice("AAPL", "190")

	body := `{"symbol":"AAPL","asset_name":"Apple Inc.","asset_type":"STOCK","quantity":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/portfolios/99/buy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBuy_MalformedBodyIs400(t *testing.T) {
	router, env := setupRouter(t)
	env.newPortfolio(t, "10000")

	req := httptest.NewRequest(http.MethodPost, "/api/portfolios/1/buy", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSell_MismatchIs409(t *testing.T) {
	router, env := setupRouter(t)
	env.resolver.setPrice("AAPL", "190")
	env.newPortfolio(t, "10000")
	env.newPortfolio(t, "10000")

	body := `{"symbol":"AAPL","asset_name":"Apple Inc.","asset_type":"STOCK","quantity":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/portfolios/1/buy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var bought TradeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bought))

	sellBody := `{"position_id":` + jsonID(bought.Position.ID) + `,"quantity":"5"}`
	req = httptest.NewRequest(http.MethodPost, "/api/portfolios/2/sell", strings.NewReader(sellBody))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleHistory_EmptyIsJSONArray(t *testing.T) {
	router, env := setupRouter(t)
	env.newPortfolio(t, "10000")

	req := httptest.NewRequest(http.MethodGet, "/api/portfolios/1/transactions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
