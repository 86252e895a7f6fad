package entity

// MoralisTokenItem is one raw row of the Moralis wallet token balance list.
type MoralisTokenItem struct {
	TokenAddress     string  `json:"token_address"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	BalanceFormatted string  `json:"balance_formatted"`
	USDValue         float64 `json:"usd_value"`
	USDPrice         float64 `json:"usd_price"`
	Logo             string  `json:"logo"`
	Thumbnail        string  `json:"thumbnail"`
	NativeToken      bool    `json:"native_token"`
}

// MoralisTokensResponse wraps the wallet balance list.
type MoralisTokensResponse struct {
	Result []MoralisTokenItem `json:"result"`
}
