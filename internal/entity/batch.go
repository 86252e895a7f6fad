package entity

// AnalysisBatch is the full outcome of one analysis run: the surviving
// per-token results plus every derived cross-token view. A new run replaces
// the previous batch wholesale; nothing in it is patched incrementally.
type AnalysisBatch struct {
	Tokens        []TokenAnalysisResult `json:"tokens"`
	GlobalRanking []AggregatedWallet    `json:"global_ranking"`
	CommonWallets []CommonWallet        `json:"common_wallets"`
	TopTokens     []TokenPerformance    `json:"top_tokens"`
	CrossNodes    []WalletNode          `json:"cross_nodes"`
	SideBySide    []ComparisonToken     `json:"side_by_side"`
	TotalTraders  int                   `json:"total_traders"`
	Summary       string                `json:"summary"`
}
