package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"trader_intel/internal/analytics"
	"trader_intel/internal/client"
	"trader_intel/internal/config"
	"trader_intel/internal/entity"
	"trader_intel/internal/pkg/utils"
	"trader_intel/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// AnalysisService orchestrates a batch token analysis: concurrent per-token
// fetches, leaderboard normalization and the derived cross-token views.
type AnalysisService interface {
	Analyze(ctx context.Context, tokenAddresses []string) (*entity.AnalysisBatch, error)
	TokenHolders(ctx context.Context, tokenAddress string) ([]entity.TokenHolder, error)
}

type analysisServiceImpl struct {
	nansen        client.NansenClient
	cfg           *config.Config
	logger        *zap.Logger
	tokenInfoCache *cache.Cache
}

// NewAnalysisService creates a new instance of AnalysisService.
func NewAnalysisService(nansen client.NansenClient, cfg *config.Config, logger *zap.Logger) AnalysisService {
	return &analysisServiceImpl{
		nansen: nansen,
		cfg:    cfg,
		logger: logger.Named("AnalysisService"),
		tokenInfoCache: cache.New(
			time.Duration(cfg.Cache.TokenInfoTTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
		),
	}
}

// Analyze runs one batch over up to MaxTokens token addresses. Every address
// must pass validation; duplicates are collapsed and excess addresses beyond
// the limit are truncated. Per-token fetch failures degrade that token to an
// empty result instead of aborting the batch, and tokens with no qualifying
// traders are dropped from the output. The surviving results keep input
// order.
func (s *analysisServiceImpl) Analyze(ctx context.Context, tokenAddresses []string) (*entity.AnalysisBatch, error) {
	for _, addr := range tokenAddresses {
		if !entity.IsValidAddress(addr) {
			return nil, fmt.Errorf("invalid token address %q: %w", addr, entity.ErrInvalidAddress)
		}
	}

	addresses := utils.DedupeStrings(tokenAddresses)
	if len(addresses) == 0 {
		return nil, fmt.Errorf("no token addresses provided")
	}
	if len(addresses) > s.cfg.Analysis.MaxTokens {
		addresses = addresses[:s.cfg.Analysis.MaxTokens]
	}

	now := time.Now().UTC()
	dateTo := now.Format(dateLayout)
	dateFrom := now.AddDate(0, 0, -s.cfg.Analysis.LookbackDays).Format(dateLayout)

	s.logger.Info("Starting batch analysis",
		zap.Strings("addresses", addresses),
		zap.String("dateFrom", dateFrom),
		zap.String("dateTo", dateTo))

	// Index-addressed slice keeps result order tied to input order without a
	// mutex: each goroutine writes only its own slot.
	results := make([]entity.TokenAnalysisResult, len(addresses))

	eg, childCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Analysis.MaxConcurrentRequests)

	for i, address := range addresses {
		i, address := i, address
		eg.Go(func() error {
			results[i] = s.analyzeToken(childCtx, address, dateFrom, dateTo)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		// Goroutines degrade failures to empty results; an error here means
		// the batch context itself died before fan-out completed.
		s.logger.Error("Batch analysis aborted", zap.Error(err))
		return nil, fmt.Errorf("batch analysis aborted: %w", err)
	}

	surviving := make([]entity.TokenAnalysisResult, 0, len(results))
	totalTraders := 0
	for _, r := range results {
		totalTraders += len(r.Wallets)
		if len(r.Wallets) == 0 {
			s.logger.Debug("Dropping token with no qualifying traders", zap.String("address", r.Address))
			continue
		}
		surviving = append(surviving, r)
	}

	batch := &entity.AnalysisBatch{
		Tokens:        surviving,
		GlobalRanking: analytics.BuildGlobalRanking(surviving),
		CommonWallets: analytics.BuildCommonWallets(surviving),
		TopTokens:     analytics.TopPerformingTokens(surviving, 5),
		CrossNodes:    analytics.BuildCrossVisualizationNodes(surviving, 15),
		SideBySide:    analytics.MergeSideBySide(surviving),
		TotalTraders:  totalTraders,
	}
	if totalTraders > 0 {
		batch.Summary = fmt.Sprintf("Found %d profitable traders across %d token(s).", totalTraders, len(results))
	} else {
		batch.Summary = "No profitable traders found for these tokens."
	}

	metrics.AnalysesRun.Inc()
	metrics.QualifyingTraders.Observe(float64(totalTraders))
	s.logger.Info("Batch analysis complete",
		zap.Int("tokens", len(surviving)),
		zap.Int("totalTraders", totalTraders))
	return batch, nil
}

// analyzeToken fetches metadata and the leaderboard for one token
// concurrently. Either fetch failing degrades to defaults rather than
// surfacing an error.
func (s *analysisServiceImpl) analyzeToken(ctx context.Context, address, dateFrom, dateTo string) entity.TokenAnalysisResult {
	var (
		info    *entity.NansenTokenItem
		entries []entity.LeaderboardEntry
	)

	eg, childCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		info = s.tokenInfo(childCtx, address)
		return nil
	})
	eg.Go(func() error {
		fetched, err := s.nansen.GetPnLLeaderboard(childCtx, address, client.LeaderboardOptions{
			DateFrom:       dateFrom,
			DateTo:         dateTo,
			Page:           1,
			Limit:          s.cfg.Analysis.LeaderboardLimit,
			MinHoldingUSD:  s.cfg.Analysis.MinHoldingUSD,
			MinRealisedPnl: s.cfg.Analysis.MinRealisedPnlUSD,
		})
		if err != nil {
			s.logger.Warn("Leaderboard fetch failed, degrading token to empty result",
				zap.String("tokenAddress", address), zap.Error(err))
			return nil
		}
		entries = fetched
		return nil
	})
	_ = eg.Wait()

	result := entity.TokenAnalysisResult{
		Address: entity.NormalizeAddress(address),
		Symbol:  "Unknown",
		Name:    "Unknown Token",
		Wallets: qualifyLeaderboard(entries, s.cfg.Analysis.LeaderboardLimit),
	}
	if info != nil {
		if info.TokenSymbol != "" {
			result.Symbol = info.TokenSymbol
		}
		if info.TokenName != "" {
			result.Name = info.TokenName
		}
	}
	return result
}

// qualifyLeaderboard drops entries without an address or with non-positive
// total PnL, sorts the remainder by descending total and truncates to limit.
func qualifyLeaderboard(entries []entity.LeaderboardEntry, limit int) []entity.LeaderboardEntry {
	qualified := make([]entity.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e.Address == "" || e.PnlUSDTotal <= 0 {
			continue
		}
		qualified = append(qualified, e)
	}
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].PnlUSDTotal > qualified[j].PnlUSDTotal
	})
	if len(qualified) > limit {
		qualified = qualified[:limit]
	}
	return qualified
}

// tokenInfo looks up token metadata, serving repeats from the TTL cache.
// Failures are best-effort nil.
func (s *analysisServiceImpl) tokenInfo(ctx context.Context, address string) *entity.NansenTokenItem {
	key := entity.NormalizeAddress(address)
	if cached, found := s.tokenInfoCache.Get(key); found {
		if info, ok := cached.(*entity.NansenTokenItem); ok {
			return info
		}
	}

	info, err := s.nansen.GetTokenInfo(ctx, address)
	if err != nil {
		s.logger.Warn("Token metadata fetch failed", zap.String("tokenAddress", address), zap.Error(err))
		return nil
	}
	if info != nil {
		s.tokenInfoCache.Set(key, info, cache.DefaultExpiration)
	}
	return info
}

// TokenHolders fetches the top holder list for a single validated token.
func (s *analysisServiceImpl) TokenHolders(ctx context.Context, tokenAddress string) ([]entity.TokenHolder, error) {
	if !entity.IsValidAddress(tokenAddress) {
		return nil, fmt.Errorf("invalid token address %q: %w", tokenAddress, entity.ErrInvalidAddress)
	}
	return s.nansen.GetTokenHolders(ctx, tokenAddress, s.cfg.Analysis.HolderListLimit, s.cfg.Analysis.MinHolderValueUSD)
}
