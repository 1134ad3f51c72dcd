package httpclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	// ConnectTimeout bounds connection setup including the TLS handshake.
	ConnectTimeout = 3 * time.Second
	// RequestTimeout bounds a whole request including the body.
	RequestTimeout = 10 * time.Second
	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects = 3
)

// ErrTooManyRedirects is returned when a server redirects more than MaxRedirects times.
var ErrTooManyRedirects = errors.New("stopped after too many redirects")

// Options configures a client.
type Options struct {
	// Proxy is an optional proxy URL. VerifySSL only applies when it is set.
	Proxy string
	// VerifySSL disables certificate verification when false and Proxy is set.
	VerifySSL bool
}

// New creates a client with the pipeline's timeouts and redirect limit.
func New(opts Options) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   ConnectTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		if !opts.VerifySSL {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > MaxRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}, nil
}
