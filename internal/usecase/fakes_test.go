package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"stockdesk/internal/domain"
)

type fakeML struct {
	predict      func(symbol string, daysAhead int) (*domain.PredictionResult, error)
	predictCtx   func(ctx context.Context, symbol string, daysAhead int) (*domain.PredictionResult, error)
	batch        func(symbols []string, daysAhead int) (*domain.BatchPredictionResult, error)
	predictCalls atomic.Int32

	lastSymbol  string
	lastPeriod  string
	lastRetrain bool
}

func (f *fakeML) Predict(ctx context.Context, symbol string, daysAhead int) (*domain.PredictionResult, error) {
	f.predictCalls.Add(1)
	if f.predictCtx != nil {
		return f.predictCtx(ctx, symbol, daysAhead)
	}
	return f.predict(symbol, daysAhead)
}

func (f *fakeML) BatchPredict(ctx context.Context, symbols []string, daysAhead int) (*domain.BatchPredictionResult, error) {
	return f.batch(symbols, daysAhead)
}

func (f *fakeML) TechnicalIndicators(ctx context.Context, symbol, period string) (*domain.IndicatorReport, error) {
	f.lastSymbol, f.lastPeriod = symbol, period
	return &domain.IndicatorReport{Symbol: symbol}, nil
}

func (f *fakeML) Train(ctx context.Context, symbol, period string, retrain bool) (*domain.TrainingResult, error) {
	f.lastSymbol, f.lastPeriod, f.lastRetrain = symbol, period, retrain
	return &domain.TrainingResult{Symbol: symbol, Message: "trained"}, nil
}

func (f *fakeML) HealthCheck(ctx context.Context) error { return nil }

// memPredictions is an in-memory PredictionRepository
type memPredictions struct {
	mu      sync.Mutex
	rows    []*domain.Prediction
	saveErr error
}

func (m *memPredictions) Save(ctx context.Context, p *domain.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows = append(m.rows, p)
	return nil
}

func (m *memPredictions) SaveMany(ctx context.Context, ps []*domain.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows = append(m.rows, ps...)
	return nil
}

func (m *memPredictions) GetLatest(ctx context.Context, symbol string) (*domain.Prediction, error) {
	h, _ := m.GetHistory(ctx, symbol, 1)
	if len(h) == 0 {
		return nil, domain.ErrNotFound
	}
	return h[0], nil
}

func (m *memPredictions) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Prediction
	for _, p := range m.rows {
		if p.Symbol == symbol {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PredictionDate.After(out[j].PredictionDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPredictions) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func (m *memPredictions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memUsers is an in-memory UserRepository
type memUsers struct {
	mu     sync.Mutex
	byMail map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byMail: map[string]*domain.User{}}
}

func (m *memUsers) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMail[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	m.byMail[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byMail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}
