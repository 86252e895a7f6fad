package entity

// LeaderboardEntry represents a single trader's performance on one token,
// normalized from the Nansen PnL leaderboard.
type LeaderboardEntry struct {
	Address          string  `json:"address"`
	PnlUSDRealised   float64 `json:"pnl_usd_realised"`
	PnlUSDUnrealised float64 `json:"pnl_usd_unrealised"`
	PnlUSDTotal      float64 `json:"pnl_usd_total"`
	ROIPercent       float64 `json:"roi_percent"`
	WinratePercent   float64 `json:"winrate_percent"`
	NumTrades        int     `json:"num_trades"`
	VolumeUSD        float64 `json:"volume_usd"`
	HoldingUSD       float64 `json:"holding_usd"`
	AvgEntryPrice    float64 `json:"avg_entry_price"`
	AvgExitPrice     float64 `json:"avg_exit_price"`
}

// TokenAnalysisResult holds the outcome of analyzing a single token address:
// its metadata plus the top profitable traders for the lookback window.
// Wallets are sorted by descending total PnL and capped at the leaderboard limit.
type TokenAnalysisResult struct {
	Address string             `json:"address"`
	Symbol  string             `json:"symbol"`
	Name    string             `json:"name"`
	Wallets []LeaderboardEntry `json:"wallets"`
}

// AggregatedWallet is the cross-token view of a single trader: the union of
// tokens it ranked in, with PnL accumulated across appearances. The first
// appearance seeds the PnL fields unmodified; later appearances add to them.
type AggregatedWallet struct {
	LeaderboardEntry
	Tokens []string `json:"tokens"`
}

// CommonWallet is a wallet appearing in the top list of at least two analyzed
// tokens. TotalPnl is the plain sum of the per-token totals and AvgROI the
// arithmetic mean of the per-token ROI values.
type CommonWallet struct {
	Address  string   `json:"address"`
	Tokens   []string `json:"tokens"`
	TotalPnl float64  `json:"total_pnl"`
	AvgROI   float64  `json:"avg_roi"`
}

// WalletNode is a node of the cross-token overlap view. Coverage is the share
// of analyzed tokens this wallet ranked in, used only for display intensity.
type WalletNode struct {
	Address  string   `json:"address"`
	Tokens   []string `json:"tokens"`
	TotalPnl float64  `json:"total_pnl"`
	Coverage float64  `json:"coverage"`
}

// TokenPerformance scores one token by the combined PnL of its top traders.
type TokenPerformance struct {
	Symbol   string  `json:"symbol"`
	TotalPnl float64 `json:"total_pnl"`
}

// ComparisonEntry is a leaderboard entry annotated for the side-by-side view.
type ComparisonEntry struct {
	LeaderboardEntry
	Common     bool `json:"common"`
	TokenCount int  `json:"token_count"`
}

// ComparisonToken is one column of the side-by-side comparison.
type ComparisonToken struct {
	Address string            `json:"address"`
	Symbol  string            `json:"symbol"`
	Name    string            `json:"name"`
	Wallets []ComparisonEntry `json:"wallets"`
}
