package config

import (
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
	"github.com/rustyeddy/smartfolio/risk"
)

func position(sym, name string, units, price, totalCost, target float64) ledger.Position {
	return ledger.Position{
		Symbol:           sym,
		Name:             name,
		Units:            units,
		CurrentPrice:     price,
		TotalCost:        ledger.Float(totalCost),
		TargetAllocation: target,
	}
}

// anchorAccount is the IRA built around SUI as the long-term core holding.
func anchorAccount() AccountConfig {
	return AccountConfig{
		ID:     "sui",
		Name:   "Roth Alto CryptoIRA (#82367)",
		Anchor: "SUI",
		Assets: []ledger.Position{
			position("SUI", "Sui", 3012.10, 0.9825, 3735.00, 50.00),
			position("LINK", "Chainlink", 16.82, 8.88, 149.75, 8.33),
			position("AAVE", "Aave", 1.241, 121.05, 149.66, 8.33),
			position("IMX", "ImmutableX", 877.38, 0.1685, 149.76, 8.34),
			position(ledger.CashSymbol, "Cash Reserve (USDC)", 201.20, 1, 201.20, 25.00),
		},
		Orders: []orders.Order{
			{ID: "41dad42", Type: ledger.Buy, Symbol: "LINK", Units: 6.06, Price: 7.923, Status: orders.Open, Date: "2026-02-13", Note: "Dip entry for LINK"},
			{ID: "c5f78c5", Type: ledger.Buy, Symbol: "IMX", Units: 501.00, Price: 0.1497, Status: orders.Open, Date: "2026-02-13", Note: "IMX lagging, watch for dip"},
			{ID: "35733e7", Type: ledger.Sell, Symbol: "AAVE", Units: 0.426, Price: 175.85, Status: orders.Open, Date: "2026-02-13", Note: "Profit target established"},
			{ID: "sui-ladder-1", Type: ledger.Sell, Symbol: "SUI", Units: 500.00, Price: 1.02, Status: orders.Open, Date: "2026-02-13", Note: "Ladder 1: Capture strength"},
			{ID: "sui-ladder-2", Type: ledger.Sell, Symbol: "SUI", Units: 600.00, Price: 1.05, Status: orders.Open, Date: "2026-02-13", Note: "Ladder 2: Core rebalance target"},
		},
		Recycled: 450.00,
		Trends: map[string][]float64{
			"SUI":  {0.88, 0.90, 0.92, 0.91, 0.95, 0.98, 0.97},
			"LINK": {8.20, 8.40, 8.35, 8.60, 8.75, 8.88, 8.95},
			"AAVE": {110, 112, 115, 118, 122, 120, 121},
		},
		Strategy: StrategyConfig{
			Name:            "Aggressive Growth - SUI Anchor",
			TradeFeePercent: 1,
			Targets: TargetsConfig{
				Anchor: risk.Band{Min: 40, Ideal: 50},
				Alts:   risk.Band{Max: 25},
				Cash:   risk.Band{Ideal: 25, Critical: 10},
			},
			Thresholds: ThresholdsConfig{
				AltProfitTakeMin:   20,
				AltProfitTakeMax:   50,
				AltDipEntryPercent: 10,
				CashCriticalBelow:  10,
				CashHealthyAbove:   20,
				MaxConcentration:   65,
				DrawdownAlert:      30,
			},
			Rules: []string{
				"SUI is the anchor; never below ~40-45% without strong reason.",
				"Alts are tactical swings only; enter on dips, take 20-50% profits, recycle to SUI or cash.",
				"Cash at 25% is the safety net; low cash is priority one to rebuild.",
				"Trim SUI on strength, not weakness; ladder exits at resistance.",
				"No FOMO market buys; limit orders only.",
			},
		},
	}
}

// rotationAccount is a tactical book with no anchor asset.
func rotationAccount() AccountConfig {
	return AccountConfig{
		ID:   "alts",
		Name: "Rotation Account",
		Assets: []ledger.Position{
			position("LINK", "Chainlink", 25.00, 8.88, 230.00, 20.00),
			position("AAVE", "Aave", 2.10, 121.05, 240.00, 20.00),
			position("IMX", "ImmutableX", 1500.00, 0.1685, 270.00, 15.00),
			position("BTC", "Bitcoin", 0.004, 97000.00, 380.00, 20.00),
			position(ledger.CashSymbol, "Cash Reserve (USDC)", 400.00, 1, 400.00, 25.00),
		},
		Trends: map[string][]float64{
			"BTC": {94000, 95200, 96100, 95800, 96900, 97400, 97000},
		},
		Strategy: StrategyConfig{
			Name:            "Tactical Rotation",
			TradeFeePercent: 1,
			Targets: TargetsConfig{
				Alts: risk.Band{Max: 75},
				Cash: risk.Band{Ideal: 25, Critical: 10},
			},
			Thresholds: ThresholdsConfig{
				AltProfitTakeMin:   20,
				AltProfitTakeMax:   50,
				AltDipEntryPercent: 10,
				CashCriticalBelow:  10,
				CashHealthyAbove:   20,
				MaxConcentration:   35,
				DrawdownAlert:      30,
			},
		},
	}
}
