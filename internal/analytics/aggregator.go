// Package analytics holds the cross-token aggregation core. Every function is
// a pure transformation of a batch of TokenAnalysisResult values; nothing here
// caches or mutates its input, so a rerun over the same batch yields identical
// output.
package analytics

import (
	"sort"

	"trader_intel/internal/entity"
)

// topListSize caps how many leaderboard entries per token participate in the
// cross-token scans. Per-token results are already truncated to this size by
// the orchestrator.
const topListSize = 10

// BuildGlobalRanking merges the per-token leaderboards into one deduplicated
// wallet ranking. The first sighting of a wallet seeds its PnL fields with
// that token's raw figures; each later sighting adds the new token's totals
// on top. A wallet seen in a single token therefore carries that token's
// unaccumulated PnL, which intentionally differs from how CommonWallet totals
// are built.
func BuildGlobalRanking(results []entity.TokenAnalysisResult) []entity.AggregatedWallet {
	byAddress := make(map[string]*entity.AggregatedWallet)
	order := make([]string, 0)

	for _, token := range results {
		for _, wallet := range token.Wallets {
			agg, seen := byAddress[wallet.Address]
			if !seen {
				agg = &entity.AggregatedWallet{LeaderboardEntry: wallet}
				byAddress[wallet.Address] = agg
				order = append(order, wallet.Address)
			}
			agg.Tokens = append(agg.Tokens, token.Symbol)
			if len(agg.Tokens) > 1 {
				agg.PnlUSDTotal += wallet.PnlUSDTotal
				agg.PnlUSDRealised += wallet.PnlUSDRealised
				agg.PnlUSDUnrealised += wallet.PnlUSDUnrealised
			}
		}
	}

	ranking := make([]entity.AggregatedWallet, 0, len(order))
	for _, addr := range order {
		ranking = append(ranking, *byAddress[addr])
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].PnlUSDTotal > ranking[j].PnlUSDTotal
	})
	return ranking
}

type commonScan struct {
	tokens []string
	seen   map[string]struct{}
	pnls   []float64
	rois   []float64
}

// scanCommon indexes wallets over each token's top slice, collecting the
// per-token PnL and ROI observations keyed by wallet address.
func scanCommon(results []entity.TokenAnalysisResult) (map[string]*commonScan, []string) {
	byAddress := make(map[string]*commonScan)
	order := make([]string, 0)

	for _, token := range results {
		top := token.Wallets
		if len(top) > topListSize {
			top = top[:topListSize]
		}
		for _, wallet := range top {
			scan, ok := byAddress[wallet.Address]
			if !ok {
				scan = &commonScan{seen: make(map[string]struct{})}
				byAddress[wallet.Address] = scan
				order = append(order, wallet.Address)
			}
			if _, dup := scan.seen[token.Symbol]; !dup {
				scan.seen[token.Symbol] = struct{}{}
				scan.tokens = append(scan.tokens, token.Symbol)
			}
			scan.pnls = append(scan.pnls, wallet.PnlUSDTotal)
			scan.rois = append(scan.rois, wallet.ROIPercent)
		}
	}
	return byAddress, order
}

// BuildCommonWallets returns the wallets ranked in at least two tokens' top
// lists. Unlike the global ranking, the total here is a plain sum over every
// per-token contribution, and ROI is the arithmetic mean of the observed
// per-token values. Sorted by descending total PnL.
func BuildCommonWallets(results []entity.TokenAnalysisResult) []entity.CommonWallet {
	byAddress, order := scanCommon(results)

	common := make([]entity.CommonWallet, 0)
	for _, addr := range order {
		scan := byAddress[addr]
		if len(scan.tokens) < 2 {
			continue
		}
		var total float64
		for _, pnl := range scan.pnls {
			total += pnl
		}
		var roiSum float64
		for _, roi := range scan.rois {
			roiSum += roi
		}
		common = append(common, entity.CommonWallet{
			Address:  addr,
			Tokens:   scan.tokens,
			TotalPnl: total,
			AvgROI:   roiSum / float64(len(scan.rois)),
		})
	}
	sort.SliceStable(common, func(i, j int) bool {
		return common[i].TotalPnl > common[j].TotalPnl
	})
	return common
}

// CommonAddressSet returns the membership index backing BuildCommonWallets,
// mapping each multi-token wallet address to the number of tokens it ranked in.
func CommonAddressSet(results []entity.TokenAnalysisResult) map[string]int {
	byAddress, _ := scanCommon(results)
	set := make(map[string]int)
	for addr, scan := range byAddress {
		if len(scan.tokens) >= 2 {
			set[addr] = len(scan.tokens)
		}
	}
	return set
}

// TopPerformingTokens ranks the analyzed tokens by the combined total PnL of
// their top traders and returns at most n of them.
func TopPerformingTokens(results []entity.TokenAnalysisResult, n int) []entity.TokenPerformance {
	perf := make([]entity.TokenPerformance, 0, len(results))
	for _, token := range results {
		top := token.Wallets
		if len(top) > topListSize {
			top = top[:topListSize]
		}
		var sum float64
		for _, wallet := range top {
			sum += wallet.PnlUSDTotal
		}
		perf = append(perf, entity.TokenPerformance{Symbol: token.Symbol, TotalPnl: sum})
	}
	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].TotalPnl > perf[j].TotalPnl
	})
	if len(perf) > n {
		perf = perf[:n]
	}
	return perf
}

// BuildCrossVisualizationNodes produces the wallet-overlap nodes for the
// cross-token view. Total PnL accumulates on every sighting including the
// first, so there is no seed asymmetry here. Nodes are wallets ranked in two
// or more tokens, ordered by token count then total PnL, capped at maxNodes.
func BuildCrossVisualizationNodes(results []entity.TokenAnalysisResult, maxNodes int) []entity.WalletNode {
	type nodeScan struct {
		tokens []string
		seen   map[string]struct{}
		total  float64
	}
	byAddress := make(map[string]*nodeScan)
	order := make([]string, 0)

	for _, token := range results {
		top := token.Wallets
		if len(top) > topListSize {
			top = top[:topListSize]
		}
		for _, wallet := range top {
			node, ok := byAddress[wallet.Address]
			if !ok {
				node = &nodeScan{seen: make(map[string]struct{})}
				byAddress[wallet.Address] = node
				order = append(order, wallet.Address)
			}
			if _, dup := node.seen[token.Symbol]; !dup {
				node.seen[token.Symbol] = struct{}{}
				node.tokens = append(node.tokens, token.Symbol)
			}
			node.total += wallet.PnlUSDTotal
		}
	}

	nodes := make([]entity.WalletNode, 0)
	for _, addr := range order {
		scan := byAddress[addr]
		if len(scan.tokens) < 2 {
			continue
		}
		nodes = append(nodes, entity.WalletNode{
			Address:  addr,
			Tokens:   scan.tokens,
			TotalPnl: scan.total,
			Coverage: float64(len(scan.tokens)) / float64(len(results)),
		})
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if len(nodes[i].Tokens) != len(nodes[j].Tokens) {
			return len(nodes[i].Tokens) > len(nodes[j].Tokens)
		}
		return nodes[i].TotalPnl > nodes[j].TotalPnl
	})
	if len(nodes) > maxNodes {
		nodes = nodes[:maxNodes]
	}
	return nodes
}

// MergeSideBySide annotates every token's wallet list with cross-token
// membership: whether the wallet ranks in two or more tokens and in how many.
// No aggregation beyond the membership lookup happens here.
func MergeSideBySide(results []entity.TokenAnalysisResult) []entity.ComparisonToken {
	counts := CommonAddressSet(results)

	columns := make([]entity.ComparisonToken, 0, len(results))
	for _, token := range results {
		column := entity.ComparisonToken{
			Address: token.Address,
			Symbol:  token.Symbol,
			Name:    token.Name,
			Wallets: make([]entity.ComparisonEntry, 0, len(token.Wallets)),
		}
		for _, wallet := range token.Wallets {
			count, common := counts[wallet.Address]
			if !common {
				count = 1
			}
			column.Wallets = append(column.Wallets, entity.ComparisonEntry{
				LeaderboardEntry: wallet,
				Common:           common,
				TokenCount:       count,
			})
		}
		columns = append(columns, column)
	}
	return columns
}
