package service

import (
	"context"
	"errors"
	"testing"

	"trader_intel/internal/client"
	"trader_intel/internal/config"
	"trader_intel/internal/entity"

	"go.uber.org/zap"
)

type fakeMoralis struct {
	tokensFunc func(address string, minValueUSD float64) (*entity.WalletPortfolio, error)
}

func (f *fakeMoralis) GetWalletTokens(ctx context.Context, address string, minValueUSD float64) (*entity.WalletPortfolio, error) {
	if f.tokensFunc == nil {
		return &entity.WalletPortfolio{Holdings: []entity.PortfolioHolding{}}, nil
	}
	return f.tokensFunc(address, minValueUSD)
}

func TestGetProfile(t *testing.T) {
	nansen := &fakeNansen{
		summaryFunc: func(address string, opts client.SummaryOptions) (*entity.WalletPnLSummary, error) {
			return &entity.WalletPnLSummary{Address: address, PnlUSDTotal: 1500}, nil
		},
	}
	moralis := &fakeMoralis{
		tokensFunc: func(address string, minValueUSD float64) (*entity.WalletPortfolio, error) {
			return &entity.WalletPortfolio{
				Holdings:      []entity.PortfolioHolding{{TokenSymbol: "CAKE", BalanceUSD: 40}},
				TotalValueUSD: 40,
			}, nil
		},
	}
	svc := NewWalletService(nansen, moralis, config.Default(), zap.NewNop())

	addr := testAddr(1)
	profile, err := svc.GetProfile(context.Background(), addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Address != addr {
		t.Errorf("unexpected address %q", profile.Address)
	}
	if profile.PnLSummary.PnlUSDTotal != 1500 {
		t.Errorf("unexpected summary total %v", profile.PnLSummary.PnlUSDTotal)
	}
	if profile.Portfolio.TotalValueUSD != 40 {
		t.Errorf("unexpected portfolio total %v", profile.Portfolio.TotalValueUSD)
	}
}

func TestGetProfile_PortfolioFailureDegrades(t *testing.T) {
	moralis := &fakeMoralis{
		tokensFunc: func(address string, minValueUSD float64) (*entity.WalletPortfolio, error) {
			return nil, errors.New("moralis down")
		},
	}
	svc := NewWalletService(&fakeNansen{}, moralis, config.Default(), zap.NewNop())

	profile, err := svc.GetProfile(context.Background(), testAddr(1))
	if err != nil {
		t.Fatalf("expected degradation, got error: %v", err)
	}
	if profile.Portfolio.Holdings == nil || len(profile.Portfolio.Holdings) != 0 {
		t.Errorf("expected empty holdings, got %+v", profile.Portfolio.Holdings)
	}
}

func TestGetProfile_SummaryFailureFails(t *testing.T) {
	nansen := &fakeNansen{
		summaryFunc: func(address string, opts client.SummaryOptions) (*entity.WalletPnLSummary, error) {
			return nil, errors.New("profiler down")
		},
	}
	svc := NewWalletService(nansen, &fakeMoralis{}, config.Default(), zap.NewNop())

	if _, err := svc.GetProfile(context.Background(), testAddr(1)); err == nil {
		t.Fatal("expected error when summary fetch fails")
	}
}

func TestGetProfile_RejectsInvalidAddress(t *testing.T) {
	svc := NewWalletService(&fakeNansen{}, &fakeMoralis{}, config.Default(), zap.NewNop())

	_, err := svc.GetProfile(context.Background(), "0xnope")
	if !errors.Is(err, entity.ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestSelect_StaleProfileDiscarded(t *testing.T) {
	slow := testAddr(1)
	fast := testAddr(2)

	started := make(chan struct{})
	release := make(chan struct{})
	nansen := &fakeNansen{
		summaryFunc: func(address string, opts client.SummaryOptions) (*entity.WalletPnLSummary, error) {
			if address == slow {
				close(started)
				<-release
			}
			return &entity.WalletPnLSummary{Address: address}, nil
		},
	}
	svc := NewWalletService(nansen, &fakeMoralis{}, config.Default(), zap.NewNop())

	if svc.CurrentProfile() != nil {
		t.Fatal("expected no current profile before any selection")
	}

	done := make(chan *entity.WalletProfile)
	go func() {
		profile, err := svc.Select(context.Background(), slow)
		if err != nil {
			t.Errorf("slow select failed: %v", err)
		}
		done <- profile
	}()
	<-started

	// A newer selection completes while the first fetch is still in flight.
	if _, err := svc.Select(context.Background(), fast); err != nil {
		t.Fatalf("fast select failed: %v", err)
	}

	close(release)
	slowProfile := <-done

	// The slow caller still gets its own data back.
	if slowProfile == nil || slowProfile.Address != slow {
		t.Fatalf("expected the slow profile to be returned to its caller, got %+v", slowProfile)
	}
	// But the visible state keeps the newer selection.
	current := svc.CurrentProfile()
	if current == nil || current.Address != fast {
		t.Errorf("expected current profile to stay on the newer selection, got %+v", current)
	}
}

func TestSelect_AppliesProfile(t *testing.T) {
	svc := NewWalletService(&fakeNansen{}, &fakeMoralis{}, config.Default(), zap.NewNop())

	addr := testAddr(7)
	if _, err := svc.Select(context.Background(), addr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	current := svc.CurrentProfile()
	if current == nil || current.Address != addr {
		t.Errorf("expected current profile %s, got %+v", addr, current)
	}
}

func TestBatchPnL(t *testing.T) {
	failing := testAddr(5)
	nansen := &fakeNansen{
		summaryFunc: func(address string, opts client.SummaryOptions) (*entity.WalletPnLSummary, error) {
			if address == failing {
				return nil, errors.New("profiler down")
			}
			return &entity.WalletPnLSummary{Address: address, PnlUSDTotal: 100}, nil
		},
	}
	cfg := config.Default()
	cfg.WalletProfile.BatchSize = 10
	svc := NewWalletService(nansen, &fakeMoralis{}, cfg, zap.NewNop())

	addresses := make([]string, 0, 25)
	for i := 1; i <= 25; i++ {
		addresses = append(addresses, testAddr(i))
	}

	summaries, err := svc.BatchPnL(context.Background(), addresses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 25 requested, one failed and was skipped.
	if len(summaries) != 24 {
		t.Errorf("expected 24 summaries, got %d", len(summaries))
	}
	if nansen.summaryCalls != 25 {
		t.Errorf("expected 25 summary calls, got %d", nansen.summaryCalls)
	}
	for _, s := range summaries {
		if s.Address == failing {
			t.Errorf("failed member %s should have been skipped", failing)
		}
	}
}

func TestBatchPnL_RejectsInvalidAddress(t *testing.T) {
	svc := NewWalletService(&fakeNansen{}, &fakeMoralis{}, config.Default(), zap.NewNop())

	_, err := svc.BatchPnL(context.Background(), []string{testAddr(1), "bogus"})
	if !errors.Is(err, entity.ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}
