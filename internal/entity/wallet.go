package entity

// TokenPnL is one entry of the top-token breakdown in a wallet PnL summary.
type TokenPnL struct {
	TokenAddress string  `json:"token_address"`
	TokenName    string  `json:"token_name"`
	TokenSymbol  string  `json:"token_symbol"`
	PnlUSD       float64 `json:"pnl_usd"`
	ROIPercent   float64 `json:"roi_percent"`
}

// WalletPnLSummary is the normalized profit/loss summary for a wallet over a
// trailing lookback window.
type WalletPnLSummary struct {
	Address          string     `json:"address"`
	PnlUSDRealised   float64    `json:"pnl_usd_realised"`
	PnlUSDUnrealised float64    `json:"pnl_usd_unrealised"`
	PnlUSDTotal      float64    `json:"pnl_usd_total"`
	ROIPercent       float64    `json:"roi_percent"`
	WinratePercent   float64    `json:"winrate_percent"`
	NumTrades        int        `json:"num_trades"`
	TopTokens        []TokenPnL `json:"top_tokens"`
}

// PortfolioHolding is one current token position of a wallet with its USD
// valuation.
type PortfolioHolding struct {
	Chain        string  `json:"chain"`
	TokenAddress string  `json:"token_address"`
	TokenSymbol  string  `json:"token_symbol"`
	TokenName    string  `json:"token_name"`
	Balance      string  `json:"balance"`
	BalanceUSD   float64 `json:"balance_usd"`
	PriceUSD     float64 `json:"price_usd"`
	Logo         string  `json:"logo,omitempty"`
	NativeToken  bool    `json:"native_token"`
}

// WalletPortfolio holds the current positions of a wallet and their combined
// USD value.
type WalletPortfolio struct {
	Holdings      []PortfolioHolding `json:"holdings"`
	TotalValueUSD float64            `json:"total_value_usd"`
}

// WalletProfile bundles the on-demand detail view of a selected wallet.
// It is fetched fresh on every selection and never cached.
type WalletProfile struct {
	Address    string           `json:"address"`
	PnLSummary WalletPnLSummary `json:"pnl_summary"`
	Portfolio  WalletPortfolio  `json:"portfolio"`
}

// TokenHolder is one entry of a token's holder list.
type TokenHolder struct {
	Address    string  `json:"address"`
	Label      string  `json:"label,omitempty"`
	Balance    float64 `json:"balance"`
	ValueUSD   float64 `json:"value_usd"`
	Ownership  float64 `json:"ownership_percent"`
}
