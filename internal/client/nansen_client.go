package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trader_intel/internal/config"
	"trader_intel/internal/entity"
	"trader_intel/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dateLayout = "2006-01-02"

// LeaderboardOptions tunes a PnL leaderboard query. Zero values fall back to
// the standard analysis window: trailing 7 days, page 1, limit 10, minimum
// realised PnL of 100 USD, ordered by descending total PnL.
type LeaderboardOptions struct {
	DateFrom       string
	DateTo         string
	Page           int
	Limit          int
	MinHoldingUSD  float64
	MinRealisedPnl float64
	OrderBy        []entity.OrderBy
}

// SummaryOptions tunes a wallet PnL summary query. The default window is the
// trailing 90 days; TokenAddress narrows the summary to one token.
type SummaryOptions struct {
	DateFrom     string
	DateTo       string
	TokenAddress string
}

// NansenClient defines the interface for the Nansen trading-analytics
// provider. All responses are normalized into the internal record shapes;
// missing upstream fields become the documented defaults.
type NansenClient interface {
	GetTokenInfo(ctx context.Context, tokenAddress string) (*entity.NansenTokenItem, error)
	GetPnLLeaderboard(ctx context.Context, tokenAddress string, opts LeaderboardOptions) ([]entity.LeaderboardEntry, error)
	GetWalletPnLSummary(ctx context.Context, address string, opts SummaryOptions) (*entity.WalletPnLSummary, error)
	GetTokenHolders(ctx context.Context, tokenAddress string, limit int, minValueUSD float64) ([]entity.TokenHolder, error)
}

type nansenClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewNansenClient creates a new instance of nansenClientImpl.
func NewNansenClient(cfg config.NansenConfig, apiKey string, logger *zap.Logger) NansenClient {
	return &nansenClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  apiKey,
		timeout: time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit),
		logger:  logger.Named("NansenClient"),
	}
}

// post sends a JSON payload to the given Nansen endpoint and returns the raw
// response body. Non-2xx responses are returned as errors carrying the
// upstream status and body.
func (c *nansenClientImpl) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request for %s: %w", endpoint, err)
	}

	requestURL := c.baseURL + endpoint
	c.logger.Debug("Requesting Nansen endpoint", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("apiKey", c.apiKey)
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("nansen", "transport_error").Inc()
		c.logger.Error("Failed to execute request to Nansen", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := append([]byte(nil), resp.Body()...)

	if resp.StatusCode() < fasthttp.StatusOK || resp.StatusCode() >= fasthttp.StatusMultipleChoices {
		metrics.UpstreamRequests.WithLabelValues("nansen", "upstream_error").Inc()
		c.logger.Error("Nansen API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, &UpstreamError{Provider: "nansen", StatusCode: resp.StatusCode(), Body: rawBody}
	}

	metrics.UpstreamRequests.WithLabelValues("nansen", "ok").Inc()
	return rawBody, nil
}

// GetTokenInfo looks up token metadata through the token screener, filtered
// to a single address over the trailing day.
func (c *nansenClientImpl) GetTokenInfo(ctx context.Context, tokenAddress string) (*entity.NansenTokenItem, error) {
	now := time.Now().UTC()
	reqBody := entity.TokenScreenerRequest{
		Chains: []string{entity.Chain},
		Date: entity.DateRange{
			From: now.Add(-24 * time.Hour).Format(time.RFC3339),
			To:   now.Format(time.RFC3339),
		},
		Pagination: entity.Pagination{Page: 1, PerPage: 1},
		Filters:    entity.TokenScreenerFilters{TokenAddress: entity.NormalizeAddress(tokenAddress)},
	}

	rawBody, err := c.post(ctx, "/token-screener", reqBody)
	if err != nil {
		return nil, err
	}

	item := extractTokenItem(rawBody)
	if item == nil {
		c.logger.Debug("Token screener returned no metadata", zap.String("tokenAddress", tokenAddress))
		return nil, nil
	}
	return item, nil
}

// extractTokenItem digs the first screener row out of the response. Upstream
// has shipped it as a top-level data array, a top-level items array, and a
// data object wrapping an items array.
func extractTokenItem(rawBody []byte) *entity.NansenTokenItem {
	var flexible struct {
		Data  jsoniter.RawMessage      `json:"data"`
		Items []entity.NansenTokenItem `json:"items"`
	}
	if err := json.Unmarshal(rawBody, &flexible); err != nil {
		return nil
	}

	if len(flexible.Data) > 0 {
		var dataItems []entity.NansenTokenItem
		if err := json.Unmarshal(flexible.Data, &dataItems); err == nil && len(dataItems) > 0 {
			return &dataItems[0]
		}
		var wrapped struct {
			Items []entity.NansenTokenItem `json:"items"`
		}
		if err := json.Unmarshal(flexible.Data, &wrapped); err == nil && len(wrapped.Items) > 0 {
			return &wrapped.Items[0]
		}
	}
	if len(flexible.Items) > 0 {
		return &flexible.Items[0]
	}
	return nil
}

// GetPnLLeaderboard fetches the profitable-trader leaderboard for one token
// and normalizes each row into a LeaderboardEntry.
func (c *nansenClientImpl) GetPnLLeaderboard(ctx context.Context, tokenAddress string, opts LeaderboardOptions) ([]entity.LeaderboardEntry, error) {
	now := time.Now().UTC()
	if opts.DateFrom == "" {
		opts.DateFrom = now.AddDate(0, 0, -7).Format(dateLayout)
	}
	if opts.DateTo == "" {
		opts.DateTo = now.Format(dateLayout)
	}
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.Limit == 0 {
		opts.Limit = 10
	}
	if opts.MinRealisedPnl == 0 {
		opts.MinRealisedPnl = 100
	}
	if len(opts.OrderBy) == 0 {
		opts.OrderBy = []entity.OrderBy{{Field: "pnl_usd_total", Direction: "DESC"}}
	}

	reqBody := entity.LeaderboardRequest{
		Chain:        entity.Chain,
		TokenAddress: entity.NormalizeAddress(tokenAddress),
		Date:         entity.DateRange{From: opts.DateFrom, To: opts.DateTo},
		Pagination:   entity.Pagination{Page: opts.Page, PerPage: opts.Limit},
		Filters: entity.LeaderboardFilters{
			HoldingUSD:     entity.MinFilter{Min: opts.MinHoldingUSD},
			PnlUSDRealised: entity.MinFilter{Min: opts.MinRealisedPnl},
		},
		OrderBy: opts.OrderBy,
	}

	rawBody, err := c.post(ctx, "/tgm/pnl-leaderboard", reqBody)
	if err != nil {
		return nil, err
	}

	var resp entity.NansenLeaderboardResponse
	if err := json.Unmarshal(rawBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leaderboard response: %w", err)
	}

	rows := resp.Rows()
	entries := make([]entity.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, NormalizeLeaderboardItem(row))
	}
	return entries, nil
}

// NormalizeLeaderboardItem reshapes a raw leaderboard row into the internal
// entry: trader_address wins over address, a missing total defaults to
// realised plus unrealised, ROI prefers the total variant and is scaled from
// a fraction to a percentage, and trade counts fall back across spellings.
func NormalizeLeaderboardItem(row entity.NansenLeaderboardItem) entity.LeaderboardEntry {
	address := row.TraderAddress
	if address == "" {
		address = row.Address
	}

	total := row.PnlUSDRealised + row.PnlUSDUnrealised
	if row.PnlUSDTotal != nil {
		total = *row.PnlUSDTotal
	}

	roi := row.ROIPercent
	if row.ROIPercentTotal != nil {
		roi = *row.ROIPercentTotal
	}

	trades := row.NofTrades
	if row.NumTrades != nil {
		trades = *row.NumTrades
	}

	return entity.LeaderboardEntry{
		Address:          address,
		PnlUSDRealised:   row.PnlUSDRealised,
		PnlUSDUnrealised: row.PnlUSDUnrealised,
		PnlUSDTotal:      total,
		ROIPercent:       roi * 100,
		WinratePercent:   row.WinratePercent,
		NumTrades:        trades,
		VolumeUSD:        row.VolumeUSD,
		HoldingUSD:       row.HoldingUSD,
		AvgEntryPrice:    row.AvgEntryPrice,
		AvgExitPrice:     row.AvgExitPrice,
	}
}

// GetWalletPnLSummary fetches the profiler summary for one wallet. Nansen
// reports realised figures only, so unrealised PnL is fixed to zero and the
// total equals the realised amount.
func (c *nansenClientImpl) GetWalletPnLSummary(ctx context.Context, address string, opts SummaryOptions) (*entity.WalletPnLSummary, error) {
	now := time.Now().UTC()
	if opts.DateFrom == "" {
		opts.DateFrom = now.AddDate(0, 0, -90).Format(dateLayout)
	}
	if opts.DateTo == "" {
		opts.DateTo = now.Format(dateLayout)
	}

	reqBody := entity.PnLSummaryRequest{
		Address: address,
		Chain:   entity.Chain,
		Date:    entity.DateRange{From: opts.DateFrom, To: opts.DateTo},
	}
	if opts.TokenAddress != "" {
		reqBody.TokenAddress = entity.NormalizeAddress(opts.TokenAddress)
	}

	rawBody, err := c.post(ctx, "/profiler/address/pnl-summary", reqBody)
	if err != nil {
		return nil, err
	}

	var resp entity.NansenPnLSummaryResponse
	if err := json.Unmarshal(rawBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pnl summary response: %w", err)
	}

	summary := NormalizePnLSummary(address, resp)
	return &summary, nil
}

// NormalizePnLSummary reshapes the raw profiler body into the internal
// summary record.
func NormalizePnLSummary(address string, resp entity.NansenPnLSummaryResponse) entity.WalletPnLSummary {
	topTokens := make([]entity.TokenPnL, 0, len(resp.Top5Tokens))
	for _, t := range resp.Top5Tokens {
		name := t.TokenSymbol
		if name == "" {
			name = t.TokenAddress
		}
		symbol := t.TokenSymbol
		if symbol == "" {
			symbol = "-"
		}
		topTokens = append(topTokens, entity.TokenPnL{
			TokenAddress: t.TokenAddress,
			TokenName:    name,
			TokenSymbol:  symbol,
			PnlUSD:       t.RealizedPnl,
			ROIPercent:   t.RealizedROI * 100,
		})
	}

	return entity.WalletPnLSummary{
		Address:          address,
		PnlUSDRealised:   resp.RealizedPnlUSD,
		PnlUSDUnrealised: 0,
		PnlUSDTotal:      resp.RealizedPnlUSD,
		ROIPercent:       resp.RealizedPnlPercent * 100,
		WinratePercent:   resp.WinRate * 100,
		NumTrades:        resp.TradedTimes,
		TopTokens:        topTokens,
	}
}

// GetTokenHolders fetches the top holder list of one token by held USD value.
func (c *nansenClientImpl) GetTokenHolders(ctx context.Context, tokenAddress string, limit int, minValueUSD float64) ([]entity.TokenHolder, error) {
	if limit <= 0 {
		limit = 100
	}

	reqBody := entity.HoldersRequest{
		Chain:             entity.Chain,
		TokenAddress:      entity.NormalizeAddress(tokenAddress),
		AggregateByEntity: false,
		LabelType:         "all_holders",
		Pagination:        entity.Pagination{Page: 1, PerPage: limit},
		Filters:           entity.HoldersFilters{ValueUSD: entity.MinFilter{Min: minValueUSD}},
		OrderBy:           []entity.OrderBy{{Field: "value_usd", Direction: "DESC"}},
	}

	rawBody, err := c.post(ctx, "/tgm/holders", reqBody)
	if err != nil {
		return nil, err
	}

	var resp entity.NansenHoldersResponse
	if err := json.Unmarshal(rawBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holders response: %w", err)
	}

	rows := resp.Rows()
	holders := make([]entity.TokenHolder, 0, len(rows))
	for _, row := range rows {
		label := row.Label
		if label == "" {
			label = row.EntityName
		}
		holders = append(holders, entity.TokenHolder{
			Address:   row.Address,
			Label:     label,
			Balance:   row.Balance,
			ValueUSD:  row.ValueUSD,
			Ownership: row.OwnershipPercentage,
		})
	}
	return holders, nil
}
