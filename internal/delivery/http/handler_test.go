package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

type stubPredictions struct {
	predictErr  error
	latest      *domain.Prediction
	latestErr   error
	batchErr    error
	batchResult *domain.BatchPredictionResult
	history     []*domain.Prediction
	gotDays     int
	gotSymbols  []string
	gotLimit    int
	trainCalled bool
}

func (s *stubPredictions) Predict(ctx context.Context, symbol string, daysAhead int) (*domain.PredictionResult, error) {
	s.gotDays = daysAhead
	if s.predictErr != nil {
		return nil, s.predictErr
	}
	return &domain.PredictionResult{Symbol: strings.ToUpper(symbol), PredictedPrice: 101}, nil
}

func (s *stubPredictions) GetLatest(ctx context.Context, symbol string) (*domain.Prediction, error) {
	return s.latest, s.latestErr
}

func (s *stubPredictions) BatchPredict(ctx context.Context, symbols []string, daysAhead int) (*domain.BatchPredictionResult, error) {
	s.gotSymbols = symbols
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	if symbols == nil {
		return nil, &domain.ValidationError{Message: "Symbols array is required"}
	}
	if s.batchResult != nil {
		return s.batchResult, nil
	}
	return &domain.BatchPredictionResult{
		Predictions: []*domain.PredictionResult{{Symbol: "TCS"}},
		Errors:      []domain.SymbolError{{Symbol: "NOPE", Error: "No data"}},
	}, nil
}

func (s *stubPredictions) GetIndicators(ctx context.Context, symbol, period string) (*domain.IndicatorReport, error) {
	return &domain.IndicatorReport{Symbol: symbol}, nil
}

func (s *stubPredictions) Train(ctx context.Context, symbol, period string, retrain bool) (*domain.TrainingResult, error) {
	s.trainCalled = true
	return &domain.TrainingResult{Symbol: symbol, Message: "Model trained"}, nil
}

func (s *stubPredictions) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.Prediction, error) {
	s.gotLimit = limit
	return s.history, nil
}

type stubAuth struct {
	signupErr error
	loginErr  error
}

func (s *stubAuth) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &domain.User{ID: uuid.New(), Name: name, Email: email}, nil
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &domain.User{ID: uuid.New(), Name: "Asha", Email: email}, nil
}

type stubPortfolio struct {
	holdings []*domain.Holding
	orders   []*domain.Order
	err      error
}

func (s *stubPortfolio) GetAll(ctx context.Context) ([]*domain.Holding, error) {
	return s.holdings, s.err
}

func (s *stubPortfolio) SaveMany(ctx context.Context, h []*domain.Holding) error { return nil }

type stubPositions struct{}

func (stubPositions) GetAll(ctx context.Context) ([]*domain.Position, error) {
	return []*domain.Position{{Name: "EVEREADY", Product: "CNC", Qty: 2}}, nil
}

func (stubPositions) SaveMany(ctx context.Context, p []*domain.Position) error { return nil }

type stubOrders struct {
	saved []*domain.Order
}

func (s *stubOrders) Save(ctx context.Context, o *domain.Order) error {
	s.saved = append(s.saved, o)
	return nil
}

func (s *stubOrders) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return s.saved, nil
}

type stubBars struct {
	gotLimit int
}

func (s *stubBars) SaveMany(ctx context.Context, bars []*domain.StockBar) error { return nil }

func (s *stubBars) GetBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.StockBar, error) {
	s.gotLimit = limit
	return []*domain.StockBar{{Symbol: symbol, Close: 10}}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubML struct{ healthErr error }

func (s stubML) Predict(context.Context, string, int) (*domain.PredictionResult, error) {
	return nil, nil
}

func (s stubML) BatchPredict(context.Context, []string, int) (*domain.BatchPredictionResult, error) {
	return nil, nil
}

func (s stubML) TechnicalIndicators(context.Context, string, string) (*domain.IndicatorReport, error) {
	return nil, nil
}

func (s stubML) Train(context.Context, string, string, bool) (*domain.TrainingResult, error) {
	return nil, nil
}

func (s stubML) HealthCheck(context.Context) error { return s.healthErr }

type testServer struct {
	e           *echo.Echo
	predictions *stubPredictions
	auth        *stubAuth
	holdings    *stubPortfolio
	orders      *stubOrders
	bars        *stubBars
}

func newTestServer(adminKey string) *testServer {
	log := logger.NewNop()
	ts := &testServer{
		e:           echo.New(),
		predictions: &stubPredictions{},
		auth:        &stubAuth{},
		holdings:    &stubPortfolio{},
		orders:      &stubOrders{},
		bars:        &stubBars{},
	}

	SetupRoutes(ts.e, &RouterConfig{
		AuthHandler:       NewAuthHandler(ts.auth, log),
		PredictionHandler: NewPredictionHandler(ts.predictions, log),
		PortfolioHandler:  NewPortfolioHandler(ts.holdings, stubPositions{}, ts.orders, log),
		MarketDataHandler: NewMarketDataHandler(ts.bars, log),
		HealthHandler:     NewHealthHandler(stubPinger{}, stubML{}),
		AdminAPIKey:       adminKey,
		Logger:            log,
	})
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func TestPredictEndpoint(t *testing.T) {
	ts := newTestServer("")

	rec := ts.do(http.MethodPost, "/api/predictions/predict", `{"symbol":"tcs"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.predictions.gotDays)

	var body struct {
		Success bool                    `json:"success"`
		Data    domain.PredictionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "TCS", body.Data.Symbol)

	ts.do(http.MethodPost, "/api/predictions/predict", `{"symbol":"tcs","days_ahead":5}`)
	assert.Equal(t, 5, ts.predictions.gotDays)
}

func TestPredictEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation",
			err:      &domain.ValidationError{Message: "Symbol is required"},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Symbol is required"}`,
		},
		{
			name:     "ml unreachable",
			err:      &domain.ServiceUnavailableError{Err: errors.New("connection refused")},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"error":"ML service is not available. Please ensure it's running on port 5000."}`,
		},
		{
			name:     "upstream body relayed",
			err:      &domain.UpstreamError{StatusCode: http.StatusUnprocessableEntity, Body: []byte(`{"error":"Invalid symbol","detail":"x"}`)},
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"error":"Invalid symbol","detail":"x"}`,
		},
		{
			name:     "upstream without body",
			err:      &domain.UpstreamError{StatusCode: http.StatusInternalServerError, Message: "Prediction failed"},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Prediction failed"}`,
		},
		{
			name:     "internal",
			err:      &domain.InternalError{Message: "context deadline exceeded"},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"context deadline exceeded"}`,
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer("")
			ts.predictions.predictErr = tt.err

			rec := ts.do(http.MethodPost, "/api/predictions/predict", `{"symbol":"tcs"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestGetLatestNotFound(t *testing.T) {
	ts := newTestServer("")
	ts.predictions.latestErr = &domain.NotFoundError{Message: "No prediction found for this symbol"}

	rec := ts.do(http.MethodGet, "/api/predictions/TCS", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No prediction found for this symbol"}`, rec.Body.String())
}

func TestBatchEndpoint(t *testing.T) {
	ts := newTestServer("")

	rec := ts.do(http.MethodPost, "/api/predictions/batch", `{"symbols":["tcs","nope"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tcs", "nope"}, ts.predictions.gotSymbols)

	var body struct {
		Success bool                 `json:"success"`
		Data    []json.RawMessage    `json:"data"`
		Errors  []domain.SymbolError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, []domain.SymbolError{{Symbol: "NOPE", Error: "No data"}}, body.Errors)

	rec = ts.do(http.MethodPost, "/api/predictions/batch", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Symbols array is required"}`, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/predictions/batch", `{"symbols":"TCS"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchEndpointAlwaysReturnsArrays(t *testing.T) {
	ts := newTestServer("")
	ts.predictions.batchResult = &domain.BatchPredictionResult{}

	rec := ts.do(http.MethodPost, "/api/predictions/batch", `{"symbols":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[],"errors":[]}`, rec.Body.String())
}

func TestTrainEndpointAdminKey(t *testing.T) {
	ts := newTestServer("s3cret")

	rec := ts.do(http.MethodPost, "/api/predictions/train", `{"symbol":"AAPL"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ts.predictions.trainCalled)

	req := httptest.NewRequest(http.MethodPost, "/api/predictions/train", strings.NewReader(`{"symbol":"AAPL"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Admin-Key", "s3cret")
	rec = httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.predictions.trainCalled)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Model trained", body["message"])
}

func TestHistoryLimitParsing(t *testing.T) {
	ts := newTestServer("")

	ts.do(http.MethodGet, "/api/predictions/TCS/history?limit=5", "")
	assert.Equal(t, 5, ts.predictions.gotLimit)

	ts.do(http.MethodGet, "/api/predictions/TCS/history?limit=abc", "")
	assert.Equal(t, 0, ts.predictions.gotLimit)
}

func TestAuthEndpoints(t *testing.T) {
	ts := newTestServer("")

	rec := ts.do(http.MethodPost, "/api/auth/signup", `{"name":"Asha","email":"asha@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"User created successfully"}`, rec.Body.String())

	ts.auth.signupErr = domain.ErrEmailTaken
	rec = ts.do(http.MethodPost, "/api/auth/signup", `{"name":"Asha","email":"asha@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Email already registered"}`, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Message string             `json:"message"`
		User    domain.UserSummary `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "Login successful", login.Message)
	assert.Equal(t, "Asha", login.User.Name)
	assert.NotContains(t, rec.Body.String(), "password")

	ts.auth.loginErr = domain.ErrInvalidCredentials
	rec = ts.do(http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid email or password"}`, rec.Body.String())

	ts.auth.loginErr = errors.New("db down")
	rec = ts.do(http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, rec.Body.String())
}

func TestNewOrder(t *testing.T) {
	ts := newTestServer("")

	rec := ts.do(http.MethodPost, "/newOrder", `{"name":"INFY","qty":2,"price":1555.45,"mode":"buy"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order saved!", rec.Body.String())
	require.Len(t, ts.orders.saved, 1)
	assert.Equal(t, domain.OrderModeBuy, ts.orders.saved[0].Mode)

	rec = ts.do(http.MethodPost, "/newOrder", `{"name":"INFY","qty":0,"price":1555.45,"mode":"BUY"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Len(t, ts.orders.saved, 1)

	rec = ts.do(http.MethodGet, "/allOrders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestPortfolioListings(t *testing.T) {
	ts := newTestServer("")
	ts.holdings.holdings = []*domain.Holding{{Name: "INFY", Qty: 1, IsLoss: true}}

	rec := ts.do(http.MethodGet, "/allHoldings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isLoss":true`)

	rec = ts.do(http.MethodGet, "/allPositions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"product":"CNC"`)

	ts.holdings.err = errors.New("db down")
	rec = ts.do(http.MethodGet, "/allHoldings", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBarsEndpoint(t *testing.T) {
	ts := newTestServer("")

	rec := ts.do(http.MethodGet, "/api/stocks/tcs/bars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60, ts.bars.gotLimit)
	assert.Contains(t, rec.Body.String(), `"symbol":"TCS"`)

	ts.do(http.MethodGet, "/api/stocks/tcs/bars?limit=5000", "")
	assert.Equal(t, 1000, ts.bars.gotLimit)
}

func TestHealthEndpoint(t *testing.T) {
	log := logger.NewNop()
	e := echo.New()
	h := NewHealthHandler(stubPinger{}, stubML{healthErr: errors.New("refused")})
	e.GET("/health", h.GetHealth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "offline", body["ml_service"])
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)

	e = echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.GET("/health", NewHealthHandler(stubPinger{err: errors.New("down")}, stubML{}).GetHealth)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer("")

	rec := ts.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}
