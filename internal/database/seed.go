package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// DemoHoldings returns the holdings the dashboard ships with
func DemoHoldings() []*domain.Holding {
	rows := []domain.Holding{
		{Name: "BHARTIARTL", Qty: 2, Avg: 538.05, Price: 541.15, Net: "+0.58%", Day: "+2.99%"},
		{Name: "HDFCBANK", Qty: 2, Avg: 1383.4, Price: 1522.35, Net: "+10.04%", Day: "+0.11%"},
		{Name: "HINDUNILVR", Qty: 1, Avg: 2335.85, Price: 2417.4, Net: "+3.49%", Day: "+0.21%"},
		{Name: "INFY", Qty: 1, Avg: 1350.5, Price: 1555.45, Net: "+15.18%", Day: "-1.60%", IsLoss: true},
		{Name: "ITC", Qty: 5, Avg: 202.0, Price: 207.9, Net: "+2.92%", Day: "+0.80%"},
		{Name: "KPITTECH", Qty: 5, Avg: 250.3, Price: 266.45, Net: "+6.45%", Day: "+3.54%"},
		{Name: "M&M", Qty: 2, Avg: 809.9, Price: 779.8, Net: "-3.72%", Day: "-0.01%", IsLoss: true},
		{Name: "RELIANCE", Qty: 1, Avg: 2193.7, Price: 2112.4, Net: "-3.71%", Day: "+1.44%"},
		{Name: "SBIN", Qty: 4, Avg: 324.35, Price: 430.2, Net: "+32.63%", Day: "-0.34%", IsLoss: true},
		{Name: "SGBMAY29", Qty: 2, Avg: 4727.0, Price: 4719.0, Net: "-0.17%", Day: "+0.15%"},
		{Name: "TATAPOWER", Qty: 5, Avg: 104.2, Price: 124.15, Net: "+19.15%", Day: "-0.24%", IsLoss: true},
		{Name: "TCS", Qty: 1, Avg: 3041.7, Price: 3194.8, Net: "+5.03%", Day: "-0.25%", IsLoss: true},
		{Name: "WIPRO", Qty: 4, Avg: 489.3, Price: 577.75, Net: "+18.08%", Day: "+0.32%"},
	}

	holdings := make([]*domain.Holding, 0, len(rows))
	for i := range rows {
		h := rows[i]
		h.ID = uuid.New()
		holdings = append(holdings, &h)
	}
	return holdings
}

// DemoPositions returns the open positions the dashboard ships with
func DemoPositions() []*domain.Position {
	rows := []domain.Position{
		{Product: "CNC", Name: "EVEREADY", Qty: 2, Avg: 316.27, Price: 312.35, Net: "+0.58%", Day: "-1.24%", IsLoss: true},
		{Product: "CNC", Name: "JUBLFOOD", Qty: 1, Avg: 3124.75, Price: 3082.65, Net: "+10.04%", Day: "-1.35%", IsLoss: true},
	}

	positions := make([]*domain.Position, 0, len(rows))
	for i := range rows {
		p := rows[i]
		p.ID = uuid.New()
		positions = append(positions, &p)
	}
	return positions
}

// SeedPortfolio inserts the demo holdings and positions
func SeedPortfolio(ctx context.Context, holdings domain.HoldingRepository, positions domain.PositionRepository, log *logger.Logger) error {
	h := DemoHoldings()
	if err := holdings.SaveMany(ctx, h); err != nil {
		return fmt.Errorf("failed to seed holdings: %w", err)
	}

	p := DemoPositions()
	if err := positions.SaveMany(ctx, p); err != nil {
		return fmt.Errorf("failed to seed positions: %w", err)
	}

	log.Info("Seeded demo portfolio",
		logger.Field("holdings", len(h)),
		logger.Field("positions", len(p)),
	)
	return nil
}
