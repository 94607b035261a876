package httpclient

import (
	"net"
	"net/http"

	"github.com/micahbule/payments-via-paymongo-for-woo/internal/shared/config"
)

// New creates the HTTP client shared by the processor adapters. Every
// request carries userAgent unless the adapter sets its own.
func New(cfg config.HTTPClientConfig, userAgent string) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}

	// Processor calls block the checkout request, so the response timeout is
	// the only bound on a hung processor.
	return &http.Client{
		Transport: &agentTransport{next: transport, userAgent: userAgent},
		Timeout:   cfg.ResponseTimeout,
	}
}

// UserAgent formats the agent string processors see, e.g. cynder_woocommerce/1.0.0.
func UserAgent(agent, version string) string {
	if version == "" {
		return agent
	}
	return agent + "/" + version
}

type agentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *agentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}
