package analytics

import (
	"math"
	"reflect"
	"testing"

	"trader_intel/internal/entity"
)

func wallet(addr string, pnl, roi float64) entity.LeaderboardEntry {
	return entity.LeaderboardEntry{
		Address:        addr,
		PnlUSDRealised: pnl * 0.6,
		PnlUSDTotal:    pnl,
		ROIPercent:     roi,
	}
}

func token(symbol string, wallets ...entity.LeaderboardEntry) entity.TokenAnalysisResult {
	return entity.TokenAnalysisResult{
		Address: "0x" + symbol,
		Symbol:  symbol,
		Name:    symbol + " Token",
		Wallets: wallets,
	}
}

func TestBuildGlobalRankingAccumulatesFromSecondSighting(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("A", wallet("0xW", 100, 20)),
		token("B", wallet("0xW", 50, 10)),
	}

	ranking := BuildGlobalRanking(results)
	if len(ranking) != 1 {
		t.Fatalf("expected 1 aggregated wallet, got %d", len(ranking))
	}
	got := ranking[0]
	if got.PnlUSDTotal != 150 {
		t.Errorf("accumulated total = %v, want 150", got.PnlUSDTotal)
	}
	if !reflect.DeepEqual(got.Tokens, []string{"A", "B"}) {
		t.Errorf("tokens = %v, want [A B]", got.Tokens)
	}
}

func TestBuildGlobalRankingSingleTokenCarriesRawPnl(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("A", wallet("0xSolo", 777, 5)),
	}
	ranking := BuildGlobalRanking(results)
	if len(ranking) != 1 || ranking[0].PnlUSDTotal != 777 {
		t.Fatalf("single-token wallet changed: %+v", ranking)
	}
}

func TestBuildGlobalRankingSortsDescending(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("A", wallet("0x1", 10, 1), wallet("0x2", 900, 1)),
		token("B", wallet("0x3", 400, 1)),
	}
	ranking := BuildGlobalRanking(results)
	for i := 1; i < len(ranking); i++ {
		if ranking[i].PnlUSDTotal > ranking[i-1].PnlUSDTotal {
			t.Fatalf("ranking not sorted descending at %d: %+v", i, ranking)
		}
	}
}

func TestBuildCommonWalletsPlainSumAndMeanROI(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("A", wallet("0xW", 100, 20)),
		token("B", wallet("0xW", 50, 10)),
	}
	common := BuildCommonWallets(results)
	if len(common) != 1 {
		t.Fatalf("expected 1 common wallet, got %d", len(common))
	}
	if common[0].TotalPnl != 150 {
		t.Errorf("totalPnl = %v, want 150", common[0].TotalPnl)
	}
	if common[0].AvgROI != 15 {
		t.Errorf("avgROI = %v, want 15", common[0].AvgROI)
	}
}

func TestBuildCommonWalletsExcludesSingleToken(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("A", wallet("0xBig", 1e9, 999), wallet("0xW", 10, 1)),
		token("B", wallet("0xW", 10, 1)),
	}
	common := BuildCommonWallets(results)
	if len(common) != 1 || common[0].Address != "0xW" {
		t.Fatalf("single-token wallet leaked into common set: %+v", common)
	}
}

func TestThreeOccurrenceTotalsCoincide(t *testing.T) {
	// With three sightings the seed-then-accumulate and plain-sum rules still
	// agree, since the seed equals the first contribution.
	results := []entity.TokenAnalysisResult{
		token("A", wallet("0xW", 100, 30)),
		token("B", wallet("0xW", 50, 20)),
		token("C", wallet("0xW", 25, 10)),
	}
	ranking := BuildGlobalRanking(results)
	common := BuildCommonWallets(results)
	if ranking[0].PnlUSDTotal != 175 || common[0].TotalPnl != 175 {
		t.Fatalf("totals diverged: ranking=%v common=%v", ranking[0].PnlUSDTotal, common[0].TotalPnl)
	}
	if math.Abs(common[0].AvgROI-20) > 1e-9 {
		t.Errorf("avgROI = %v, want 20", common[0].AvgROI)
	}
}

func TestAggregationIsIdempotent(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("A", wallet("0xA", 500, 20), wallet("0xB", 300, 10)),
		token("B", wallet("0xA", 400, 15), wallet("0xC", 200, 5)),
	}
	first := BuildGlobalRanking(results)
	second := BuildGlobalRanking(results)
	if !reflect.DeepEqual(first, second) {
		t.Error("BuildGlobalRanking is not a pure function of its input")
	}
	firstCommon := BuildCommonWallets(results)
	secondCommon := BuildCommonWallets(results)
	if !reflect.DeepEqual(firstCommon, secondCommon) {
		t.Error("BuildCommonWallets is not a pure function of its input")
	}
}

func TestEndToEndTwoTokenScenario(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("X", wallet("0xA", 500, 20), wallet("0xB", 300, 10)),
		token("Y", wallet("0xA", 400, 15), wallet("0xC", 200, 5)),
	}

	ranking := BuildGlobalRanking(results)
	if len(ranking) != 3 {
		t.Fatalf("expected 3 aggregated wallets, got %d", len(ranking))
	}
	if ranking[0].Address != "0xA" || ranking[0].PnlUSDTotal != 900 {
		t.Errorf("ranking[0] = %s/%v, want 0xA/900", ranking[0].Address, ranking[0].PnlUSDTotal)
	}
	if !reflect.DeepEqual(ranking[0].Tokens, []string{"X", "Y"}) {
		t.Errorf("ranking[0].Tokens = %v, want [X Y]", ranking[0].Tokens)
	}
	if ranking[1].Address != "0xB" || ranking[1].PnlUSDTotal != 300 {
		t.Errorf("ranking[1] = %s/%v, want 0xB/300", ranking[1].Address, ranking[1].PnlUSDTotal)
	}
	if ranking[2].Address != "0xC" || ranking[2].PnlUSDTotal != 200 {
		t.Errorf("ranking[2] = %s/%v, want 0xC/200", ranking[2].Address, ranking[2].PnlUSDTotal)
	}

	common := BuildCommonWallets(results)
	if len(common) != 1 {
		t.Fatalf("expected 1 common wallet, got %d", len(common))
	}
	if common[0].Address != "0xA" || common[0].TotalPnl != 900 {
		t.Errorf("common[0] = %s/%v, want 0xA/900", common[0].Address, common[0].TotalPnl)
	}
	if common[0].AvgROI != 17.5 {
		t.Errorf("common[0].AvgROI = %v, want 17.5", common[0].AvgROI)
	}

	top := TopPerformingTokens(results, 5)
	want := []entity.TokenPerformance{{Symbol: "X", TotalPnl: 800}, {Symbol: "Y", TotalPnl: 600}}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("top tokens = %+v, want %+v", top, want)
	}
}

func TestTopPerformingTokensTruncates(t *testing.T) {
	results := make([]entity.TokenAnalysisResult, 0, 7)
	for _, s := range []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7"} {
		results = append(results, token(s, wallet("0x"+s, 10, 1)))
	}
	if got := TopPerformingTokens(results, 5); len(got) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(got))
	}
}

func TestBuildCrossVisualizationNodes(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("X", wallet("0xA", 500, 20), wallet("0xB", 300, 10)),
		token("Y", wallet("0xA", 400, 15), wallet("0xB", 100, 5)),
		token("Z", wallet("0xB", 50, 1)),
	}

	nodes := BuildCrossVisualizationNodes(results, 15)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	// 0xB ranks in three tokens, so it leads regardless of PnL.
	if nodes[0].Address != "0xB" || len(nodes[0].Tokens) != 3 {
		t.Errorf("nodes[0] = %+v, want 0xB across 3 tokens", nodes[0])
	}
	if nodes[0].TotalPnl != 450 {
		t.Errorf("0xB total = %v, want 450 (unconditional accumulation)", nodes[0].TotalPnl)
	}
	if nodes[0].Coverage != 1 {
		t.Errorf("0xB coverage = %v, want 1", nodes[0].Coverage)
	}
	if nodes[1].Address != "0xA" || nodes[1].TotalPnl != 900 {
		t.Errorf("nodes[1] = %+v, want 0xA/900", nodes[1])
	}
	if math.Abs(nodes[1].Coverage-2.0/3.0) > 1e-9 {
		t.Errorf("0xA coverage = %v, want 2/3", nodes[1].Coverage)
	}
}

func TestBuildCrossVisualizationNodesTruncatesToMax(t *testing.T) {
	results := []entity.TokenAnalysisResult{token("X"), token("Y")}
	for i := 0; i < 20; i++ {
		addr := string(rune('a'+i)) + "-wallet"
		results[0].Wallets = append(results[0].Wallets, wallet(addr, float64(20-i), 1))
		results[1].Wallets = append(results[1].Wallets, wallet(addr, float64(20-i), 1))
	}
	// Only top-10 slices participate, so 10 candidates exist at most.
	nodes := BuildCrossVisualizationNodes(results, 4)
	if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes after truncation, got %d", len(nodes))
	}
}

func TestMergeSideBySideAnnotatesCommonWallets(t *testing.T) {
	results := []entity.TokenAnalysisResult{
		token("X", wallet("0xA", 500, 20), wallet("0xB", 300, 10)),
		token("Y", wallet("0xA", 400, 15)),
	}
	columns := MergeSideBySide(results)
	if len(columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(columns))
	}
	colX := columns[0]
	if !colX.Wallets[0].Common || colX.Wallets[0].TokenCount != 2 {
		t.Errorf("0xA should be common across 2 tokens: %+v", colX.Wallets[0])
	}
	if colX.Wallets[1].Common || colX.Wallets[1].TokenCount != 1 {
		t.Errorf("0xB should not be common: %+v", colX.Wallets[1])
	}
}
