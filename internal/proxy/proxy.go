// Package proxy forwards API requests to the chat backend, restoring the
// mount prefix stripped by the router so the upstream sees the exact
// logical path the browser requested.
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Forwarder relays requests under a mount prefix to a single upstream
// and returns its responses verbatim. Forwarding failures become 502
// responses; they never escape as panics or hung connections.
type Forwarder struct {
	target  *url.URL
	mount   string
	timeout time.Duration
	rp      *httputil.ReverseProxy
	log     zerolog.Logger

	// onError is invoked once per forwarding failure.
	onError func()
}

// Option configures optional Forwarder behavior.
type Option func(*Forwarder)

// WithErrorHook registers a callback fired on every forwarding failure.
func WithErrorHook(fn func()) Option {
	return func(f *Forwarder) { f.onError = fn }
}

// New builds a Forwarder for the given upstream base URL. mount is the
// local prefix under which the Forwarder is served (e.g. "/api"); the
// rewrite step re-prepends it after the router's prefix-strip so that
// RestorePath(StripMount(p)) == p for every forwarded path.
func New(targetURL, mount string, timeout time.Duration, log zerolog.Logger, opts ...Option) (*Forwarder, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL %q: %w", targetURL, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend URL %q must be absolute", targetURL)
	}

	f := &Forwarder{
		target:  target,
		mount:   strings.TrimSuffix(mount, "/"),
		timeout: timeout,
		log:     log,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.rp = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(f.target)
			pr.Out.URL.Path = f.RestorePath(pr.In.URL.Path)
			pr.Out.URL.RawPath = ""
			// changeOrigin is off upstream: keep the client's Host.
			pr.Out.Host = pr.In.Host
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			f.log.Error().
				Err(err).
				Str("method", r.Method).
				Str("path", f.RestorePath(r.URL.Path)).
				Msg("backend forward failed")
			if f.onError != nil {
				f.onError()
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintln(w, "backend unavailable")
		},
	}

	return f, nil
}

// StripMount removes the mount prefix from a request path, mirroring
// what the router does before handing the request to the Forwarder.
func (f *Forwarder) StripMount(path string) string {
	return strings.TrimPrefix(path, f.mount)
}

// RestorePath re-prepends the mount prefix so the upstream receives the
// identical logical path the client requested.
func (f *Forwarder) RestorePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return f.mount + path
}

// ServeHTTP forwards one request, bounded by the configured timeout.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.timeout > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), f.timeout)
		defer cancel()
		r = r.WithContext(ctx)
	}
	f.rp.ServeHTTP(w, r)
}
