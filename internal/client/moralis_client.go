package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trader_intel/internal/config"
	"trader_intel/internal/entity"
	"trader_intel/pkg/metrics"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MoralisClient defines the interface for the Moralis balance provider. It
// exists because the analytics provider's balance endpoint is unreliable.
type MoralisClient interface {
	GetWalletTokens(ctx context.Context, address string, minValueUSD float64) (*entity.WalletPortfolio, error)
}

type moralisClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewMoralisClient creates a new instance of moralisClientImpl.
func NewMoralisClient(cfg config.MoralisConfig, apiKey string, logger *zap.Logger) MoralisClient {
	return &moralisClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  apiKey,
		timeout: time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit),
		logger:  logger.Named("MoralisClient"),
	}
}

// GetWalletTokens fetches the current BSC token balances of a wallet and
// normalizes them into portfolio holdings. Spam tokens and thin-liquidity
// pairs are excluded upstream; positions at or below minValueUSD are dropped
// here. The portfolio total is the sum of the retained holding values.
func (c *moralisClientImpl) GetWalletTokens(ctx context.Context, address string, minValueUSD float64) (*entity.WalletPortfolio, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestURL := fmt.Sprintf("%s/wallets/%s/tokens?chain=bsc&exclude_spam=true&limit=100&min_pair_side_liquidity_usd=500", c.baseURL, address)
	c.logger.Debug("Requesting wallet tokens from Moralis", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("moralis", "transport_error").Inc()
		c.logger.Error("Failed to execute request to Moralis", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := append([]byte(nil), resp.Body()...)

	if resp.StatusCode() < fasthttp.StatusOK || resp.StatusCode() >= fasthttp.StatusMultipleChoices {
		metrics.UpstreamRequests.WithLabelValues("moralis", "upstream_error").Inc()
		c.logger.Error("Moralis API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, &UpstreamError{Provider: "moralis", StatusCode: resp.StatusCode(), Body: rawBody}
	}
	metrics.UpstreamRequests.WithLabelValues("moralis", "ok").Inc()

	var tokensResp entity.MoralisTokensResponse
	if err := json.Unmarshal(rawBody, &tokensResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Moralis response: %w", err)
	}

	portfolio := NormalizePortfolio(tokensResp, minValueUSD)
	c.logger.Debug("Normalized wallet portfolio",
		zap.String("address", address),
		zap.Int("holdings", len(portfolio.Holdings)),
		zap.Float64("totalValueUSD", portfolio.TotalValueUSD))
	return portfolio, nil
}

// NormalizePortfolio maps raw Moralis balance rows into portfolio holdings,
// dropping positions worth minValueUSD or less.
func NormalizePortfolio(resp entity.MoralisTokensResponse, minValueUSD float64) *entity.WalletPortfolio {
	portfolio := &entity.WalletPortfolio{Holdings: make([]entity.PortfolioHolding, 0, len(resp.Result))}
	for _, item := range resp.Result {
		if item.USDValue <= minValueUSD {
			continue
		}
		logo := item.Logo
		if logo == "" {
			logo = item.Thumbnail
		}
		portfolio.Holdings = append(portfolio.Holdings, entity.PortfolioHolding{
			Chain:        entity.Chain,
			TokenAddress: item.TokenAddress,
			TokenSymbol:  item.Symbol,
			TokenName:    item.Name,
			Balance:      item.BalanceFormatted,
			BalanceUSD:   item.USDValue,
			PriceUSD:     item.USDPrice,
			Logo:         logo,
			NativeToken:  item.NativeToken,
		})
		portfolio.TotalValueUSD += item.USDValue
	}
	return portfolio
}
