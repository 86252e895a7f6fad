package restapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"trader_intel/internal/client"
	"trader_intel/internal/entity"
	"trader_intel/internal/export"
	"trader_intel/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the analysis, wallet and export operations over HTTP.
type Handler struct {
	analysis service.AnalysisService
	wallets  service.WalletService
	logger   *zap.Logger
}

// NewHandler creates a new instance of Handler.
func NewHandler(analysis service.AnalysisService, wallets service.WalletService, logger *zap.Logger) *Handler {
	return &Handler{
		analysis: analysis,
		wallets:  wallets,
		logger:   logger.Named("Handler"),
	}
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Tokens []string `json:"tokens" binding:"required"`
}

// AnalyzeHandler runs a batch token analysis and returns the full batch with
// every derived cross-token view.
func (h *Handler) AnalyzeHandler(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	batch, err := h.analysis.Analyze(c.Request.Context(), req.Tokens)
	if err != nil {
		h.respondError(c, err, "Failed to analyze tokens. Please check the addresses and try again.")
		return
	}
	c.JSON(http.StatusOK, batch)
}

// WalletHandler serves the on-demand wallet detail view.
func (h *Handler) WalletHandler(c *gin.Context) {
	profile, err := h.wallets.Select(c.Request.Context(), c.Param("address"))
	if err != nil {
		h.respondError(c, err, "Failed to load wallet data. Please try again.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// BatchPnLRequest is the body of POST /api/v1/wallets/batch-pnl.
type BatchPnLRequest struct {
	Addresses []string `json:"addresses" binding:"required"`
}

// BatchPnLHandler fetches PnL summaries for a list of wallets.
func (h *Handler) BatchPnLHandler(c *gin.Context) {
	var req BatchPnLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	summaries, err := h.wallets.BatchPnL(c.Request.Context(), req.Addresses)
	if err != nil {
		h.respondError(c, err, "Failed to fetch wallet PnL summaries.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summaries})
}

// HoldersHandler serves the top holder list of a token.
func (h *Handler) HoldersHandler(c *gin.Context) {
	holders, err := h.analysis.TokenHolders(c.Request.Context(), c.Param("address"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch token holders.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": holders})
}

// ExportRequest is the body of POST /api/v1/export/:format: the wallet subset
// currently selected in the dashboard.
type ExportRequest struct {
	Filename string                    `json:"filename"`
	Wallets  []entity.AggregatedWallet `json:"wallets" binding:"required"`
}

// ExportHandler renders the posted wallet subset as a downloadable JSON or
// CSV snapshot.
func (h *Handler) ExportHandler(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	filename := req.Filename
	if filename == "" {
		filename = "wallets"
	}

	switch c.Param("format") {
	case "json":
		body, err := export.JSON(req.Wallets)
		if err != nil {
			h.respondError(c, err, "Could not export data as JSON")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		c.Data(http.StatusOK, "application/json", body)
	case "csv":
		body, err := export.CSV(walletRecords(req.Wallets))
		if err != nil {
			h.respondError(c, err, "Could not export data as CSV")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", []byte(body))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format", "details": c.Param("format")})
	}
}

// walletRecords flattens aggregated wallets into ordered export records.
func walletRecords(wallets []entity.AggregatedWallet) []export.Record {
	records := make([]export.Record, 0, len(wallets))
	for _, w := range wallets {
		records = append(records, export.Record{Fields: []export.Field{
			{Key: "address", Value: w.Address},
			{Key: "tokens", Value: strings.Join(w.Tokens, ", ")},
			{Key: "pnl_usd_total", Value: w.PnlUSDTotal},
			{Key: "pnl_usd_realised", Value: w.PnlUSDRealised},
			{Key: "pnl_usd_unrealised", Value: w.PnlUSDUnrealised},
			{Key: "roi_percent", Value: w.ROIPercent},
			{Key: "winrate_percent", Value: w.WinratePercent},
			{Key: "num_trades", Value: w.NumTrades},
			{Key: "volume_usd", Value: w.VolumeUSD},
		}})
	}
	return records
}

// respondError relays upstream provider errors with their original status and
// body, and maps everything else to a generic failure with the given
// user-facing message.
func (h *Handler) respondError(c *gin.Context, err error, message string) {
	var upstream *client.UpstreamError
	if errors.As(err, &upstream) {
		c.Data(upstream.StatusCode, "application/json", upstream.Body)
		return
	}
	if errors.Is(err, entity.ErrInvalidAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}
