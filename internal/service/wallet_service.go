package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trader_intel/internal/client"
	"trader_intel/internal/config"
	"trader_intel/internal/entity"
	"trader_intel/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WalletService serves the on-demand wallet detail view: a PnL summary and
// a current portfolio, fetched fresh on every selection.
type WalletService interface {
	GetProfile(ctx context.Context, address string) (*entity.WalletProfile, error)
	Select(ctx context.Context, address string) (*entity.WalletProfile, error)
	CurrentProfile() *entity.WalletProfile
	BatchPnL(ctx context.Context, addresses []string) ([]entity.WalletPnLSummary, error)
}

type walletServiceImpl struct {
	nansen  client.NansenClient
	moralis client.MoralisClient
	cfg     *config.Config
	logger  *zap.Logger

	// Selection state. generation increases on every Select call; a fetched
	// profile is applied only if its generation still matches, so a slow
	// response for a previously selected wallet can never overwrite the
	// profile of the wallet selected after it.
	mu         sync.Mutex
	generation uint64
	current    *entity.WalletProfile
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(nansen client.NansenClient, moralis client.MoralisClient, cfg *config.Config, logger *zap.Logger) WalletService {
	return &walletServiceImpl{
		nansen:  nansen,
		moralis: moralis,
		cfg:     cfg,
		logger:  logger.Named("WalletService"),
	}
}

// GetProfile fetches the PnL summary and portfolio for one wallet as a
// concurrent pair. A portfolio failure degrades to an empty portfolio; a
// summary failure fails the profile since the detail view is useless without
// it. Nothing is cached across selections.
func (s *walletServiceImpl) GetProfile(ctx context.Context, address string) (*entity.WalletProfile, error) {
	if !entity.IsValidAddress(address) {
		return nil, fmt.Errorf("invalid wallet address %q: %w", address, entity.ErrInvalidAddress)
	}

	now := time.Now().UTC()
	dateTo := now.Format(dateLayout)
	dateFrom := now.AddDate(0, 0, -s.cfg.WalletProfile.LookbackDays).Format(dateLayout)

	profile := &entity.WalletProfile{Address: address}

	eg, childCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		summary, err := s.nansen.GetWalletPnLSummary(childCtx, address, client.SummaryOptions{
			DateFrom: dateFrom,
			DateTo:   dateTo,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch pnl summary for %s: %w", address, err)
		}
		profile.PnLSummary = *summary
		return nil
	})
	eg.Go(func() error {
		portfolio, err := s.moralis.GetWalletTokens(childCtx, address, s.cfg.WalletProfile.MinHoldingValueUSD)
		if err != nil {
			s.logger.Warn("Portfolio fetch failed, degrading to empty holdings",
				zap.String("address", address), zap.Error(err))
			profile.Portfolio = entity.WalletPortfolio{Holdings: []entity.PortfolioHolding{}}
			return nil
		}
		profile.Portfolio = *portfolio
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Select fetches the profile for a newly selected wallet and applies it to
// the visible state only if no newer selection happened while the fetch was
// in flight. The fetched profile is returned either way so the caller that
// initiated the selection still gets its data.
func (s *walletServiceImpl) Select(ctx context.Context, address string) (*entity.WalletProfile, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	profile, err := s.GetProfile(ctx, address)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.generation {
		s.current = profile
	} else {
		s.logger.Debug("Discarding stale wallet profile",
			zap.String("address", address),
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.generation))
	}
	return profile, nil
}

// CurrentProfile returns the profile of the most recent selection whose fetch
// has completed, or nil when none has.
func (s *walletServiceImpl) CurrentProfile() *entity.WalletProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// BatchPnL fetches PnL summaries for many wallets. Addresses are chunked into
// groups; groups run sequentially to bound concurrent upstream calls while
// the members of a group run in parallel. Failed members are skipped.
func (s *walletServiceImpl) BatchPnL(ctx context.Context, addresses []string) ([]entity.WalletPnLSummary, error) {
	for _, addr := range addresses {
		if !entity.IsValidAddress(addr) {
			return nil, fmt.Errorf("invalid wallet address %q: %w", addr, entity.ErrInvalidAddress)
		}
	}

	now := time.Now().UTC()
	dateTo := now.Format(dateLayout)
	dateFrom := now.AddDate(0, 0, -s.cfg.WalletProfile.LookbackDays).Format(dateLayout)

	summaries := make([]entity.WalletPnLSummary, 0, len(addresses))
	var mu sync.Mutex

	for _, batch := range utils.BatchStrings(addresses, s.cfg.WalletProfile.BatchSize) {
		eg, childCtx := errgroup.WithContext(ctx)
		for _, address := range batch {
			address := address
			eg.Go(func() error {
				summary, err := s.nansen.GetWalletPnLSummary(childCtx, address, client.SummaryOptions{
					DateFrom: dateFrom,
					DateTo:   dateTo,
				})
				if err != nil {
					s.logger.Warn("Batch PnL member failed, skipping",
						zap.String("address", address), zap.Error(err))
					return nil
				}
				mu.Lock()
				summaries = append(summaries, *summary)
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, fmt.Errorf("batch pnl aborted: %w", err)
		}
	}

	return summaries, nil
}
