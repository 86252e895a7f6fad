// Package gateway implements the credential-injecting relay between the
// dashboard and the upstream analytics providers. It forwards method and body
// verbatim, attaches the provider API key server-side, and relays non-2xx
// upstream responses with their original status and JSON body.
package gateway

import (
	"net/http"
	"time"

	"trader_intel/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Provider describes one upstream a relay route forwards to, including the
// header its API key travels in.
type Provider struct {
	Name      string
	BaseURL   string
	APIKey    string
	KeyHeader string
}

// Proxy relays browser requests to the configured upstream providers.
type Proxy struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewProxy creates a relay with the given request timeout.
func NewProxy(timeout time.Duration, logger *zap.Logger) *Proxy {
	return &Proxy{
		client:  &fasthttp.Client{},
		timeout: timeout,
		logger:  logger.Named("Gateway"),
	}
}

// Register mounts the relay routes for a provider under /api/<name>/*path.
func (p *Proxy) Register(router gin.IRouter, provider Provider) {
	router.Any("/api/"+provider.Name+"/*path", p.relayHandler(provider))
}

func (p *Proxy) relayHandler(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			p.fail(c, provider, err)
			return
		}

		upstreamURL := provider.BaseURL + c.Param("path")
		if raw := c.Request.URL.RawQuery; raw != "" {
			upstreamURL += "?" + raw
		}

		p.logger.Debug("Relaying request",
			zap.String("provider", provider.Name),
			zap.String("method", c.Request.Method),
			zap.String("url", upstreamURL))

		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		req.SetRequestURI(upstreamURL)
		req.Header.SetMethod(c.Request.Method)
		req.Header.SetContentType("application/json")
		req.Header.Set("accept", "application/json")
		req.Header.Set(provider.KeyHeader, provider.APIKey)
		if c.Request.Method != http.MethodGet {
			req.SetBody(body)
		}

		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)

		if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
			p.fail(c, provider, err)
			return
		}

		status := resp.StatusCode()
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			metrics.GatewayRelays.WithLabelValues(provider.Name, "2xx").Inc()
		} else {
			metrics.GatewayRelays.WithLabelValues(provider.Name, "error").Inc()
			p.logger.Warn("Upstream returned error status",
				zap.String("provider", provider.Name),
				zap.String("url", upstreamURL),
				zap.Int("statusCode", status))
		}

		c.Data(status, "application/json", append([]byte(nil), resp.Body()...))
	}
}

func (p *Proxy) fail(c *gin.Context, provider Provider, err error) {
	metrics.GatewayRelays.WithLabelValues(provider.Name, "transport_error").Inc()
	p.logger.Error("Relay failed", zap.String("provider", provider.Name), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Proxy server error",
		"details": err.Error(),
	})
}
