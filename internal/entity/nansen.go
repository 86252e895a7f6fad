package entity

// Chain is the single chain identifier this service operates on. Nansen
// addresses BNB Smart Chain as "bnb".
const Chain = "bnb"

// DateRange bounds a Nansen query to a trailing window, dates as YYYY-MM-DD.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Pagination is the Nansen page selector.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// MinFilter is a lower-bound filter on a numeric metric.
type MinFilter struct {
	Min float64 `json:"min"`
}

// OrderBy is one sort clause of a Nansen request.
type OrderBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// LeaderboardFilters restricts the PnL leaderboard to qualifying traders.
type LeaderboardFilters struct {
	HoldingUSD     MinFilter `json:"holding_usd"`
	PnlUSDRealised MinFilter `json:"pnl_usd_realised"`
}

// LeaderboardRequest is the payload for POST /tgm/pnl-leaderboard.
type LeaderboardRequest struct {
	Chain        string             `json:"chain"`
	TokenAddress string             `json:"token_address"`
	Date         DateRange          `json:"date"`
	Pagination   Pagination         `json:"pagination"`
	Filters      LeaderboardFilters `json:"filters"`
	OrderBy      []OrderBy          `json:"order_by"`
}

// HoldersFilters restricts the holder list by held USD value.
type HoldersFilters struct {
	ValueUSD MinFilter `json:"value_usd"`
}

// HoldersRequest is the payload for POST /tgm/holders.
type HoldersRequest struct {
	Chain             string         `json:"chain"`
	TokenAddress      string         `json:"token_address"`
	AggregateByEntity bool           `json:"aggregate_by_entity"`
	LabelType         string         `json:"label_type"`
	Pagination        Pagination     `json:"pagination"`
	Filters           HoldersFilters `json:"filters"`
	OrderBy           []OrderBy      `json:"order_by"`
}

// PnLSummaryRequest is the payload for POST /profiler/address/pnl-summary.
// TokenAddress is optional and narrows the summary to a single token.
type PnLSummaryRequest struct {
	Address      string    `json:"address"`
	Chain        string    `json:"chain"`
	Date         DateRange `json:"date"`
	TokenAddress string    `json:"token_address,omitempty"`
}

// TokenScreenerFilters selects a single token by address.
type TokenScreenerFilters struct {
	TokenAddress string `json:"token_address"`
}

// TokenScreenerRequest is the payload for POST /token-screener, used here only
// as a metadata lookup for one token.
type TokenScreenerRequest struct {
	Chains     []string             `json:"chains"`
	Date       DateRange            `json:"date"`
	Pagination Pagination           `json:"pagination"`
	Filters    TokenScreenerFilters `json:"filters"`
}

// NansenLeaderboardItem is the raw leaderboard row as returned upstream.
// Nansen has shipped this shape under several field spellings; pointers keep
// present-vs-absent distinguishable where the fallback rules need it.
type NansenLeaderboardItem struct {
	TraderAddress    string   `json:"trader_address"`
	Address          string   `json:"address"`
	PnlUSDRealised   float64  `json:"pnl_usd_realised"`
	PnlUSDUnrealised float64  `json:"pnl_usd_unrealised"`
	PnlUSDTotal      *float64 `json:"pnl_usd_total"`
	ROIPercentTotal  *float64 `json:"roi_percent_total"`
	ROIPercent       float64  `json:"roi_percent"`
	WinratePercent   float64  `json:"winrate_percent"`
	NumTrades        *int     `json:"num_trades"`
	NofTrades        int      `json:"nof_trades"`
	VolumeUSD        float64  `json:"volume_usd"`
	HoldingUSD       float64  `json:"holding_usd"`
	AvgEntryPrice    float64  `json:"avg_entry_price"`
	AvgExitPrice     float64  `json:"avg_exit_price"`
}

// NansenLeaderboardResponse wraps leaderboard rows; upstream returns them
// under either "data" or "items".
type NansenLeaderboardResponse struct {
	Data  []NansenLeaderboardItem `json:"data"`
	Items []NansenLeaderboardItem `json:"items"`
}

// Rows returns whichever list the response carried.
func (r *NansenLeaderboardResponse) Rows() []NansenLeaderboardItem {
	if len(r.Data) > 0 {
		return r.Data
	}
	return r.Items
}

// NansenHolderItem is the raw holder row.
type NansenHolderItem struct {
	Address             string  `json:"address"`
	EntityName          string  `json:"entity_name"`
	Label               string  `json:"label"`
	Balance             float64 `json:"balance"`
	ValueUSD            float64 `json:"value_usd"`
	OwnershipPercentage float64 `json:"ownership_percentage"`
}

// NansenHoldersResponse wraps holder rows, same data/items duality as the
// leaderboard.
type NansenHoldersResponse struct {
	Data  []NansenHolderItem `json:"data"`
	Items []NansenHolderItem `json:"items"`
}

// Rows returns whichever list the response carried.
func (r *NansenHoldersResponse) Rows() []NansenHolderItem {
	if len(r.Data) > 0 {
		return r.Data
	}
	return r.Items
}

// NansenPnLSummaryResponse is the raw profiler pnl-summary body.
type NansenPnLSummaryResponse struct {
	RealizedPnlUSD     float64              `json:"realized_pnl_usd"`
	RealizedPnlPercent float64              `json:"realized_pnl_percent"`
	WinRate            float64              `json:"win_rate"`
	TradedTimes        int                  `json:"traded_times"`
	Top5Tokens         []NansenTopTokenItem `json:"top5_tokens"`
}

// NansenTopTokenItem is one row of the top-token breakdown.
type NansenTopTokenItem struct {
	TokenAddress string  `json:"token_address"`
	TokenSymbol  string  `json:"token_symbol"`
	RealizedPnl  float64 `json:"realized_pnl"`
	RealizedROI  float64 `json:"realized_roi"`
}

// NansenTokenItem is the raw token-screener row carrying token metadata.
type NansenTokenItem struct {
	TokenAddress string `json:"token_address"`
	TokenSymbol  string `json:"token_symbol"`
	TokenName    string `json:"token_name"`
}
