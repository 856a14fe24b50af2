// Package nonoproxy implements a userspace SOCKS5 egress proxy that
// cooperatively restricts outbound connections to an allowed domain list.
//
// This is explicitly not a kernel-enforced boundary: the Landlock and
// Seatbelt back-ends in the nono package only ever expose a binary
// network-blocked flag (§1's Non-goal: "providing network-layer
// filtering finer than all outbound sockets blocked"). A sandboxed
// process that wants finer-grained egress must route through this proxy
// voluntarily — usually via the ALL_PROXY environment variable nono
// sets on the child it launches — while the kernel grant
// stays a flat allow or deny.
package nonoproxy

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	socks5 "github.com/things-go/go-socks5"
)

// DomainRuleSet is a socks5.RuleSet that allows a CONNECT only when the
// request's destination host matches an entry in Allowed, by exact match
// or as a suffix of a "*.example.com" wildcard entry.
type DomainRuleSet struct {
	Allowed []string
	Logger  *slog.Logger
}

// Allow implements socks5.RuleSet.
func (d *DomainRuleSet) Allow(ctx context.Context, req *socks5.Request) (context.Context, bool) {
	host := requestHost(req)
	ok := d.hostAllowed(host)
	if d.Logger != nil {
		if ok {
			d.Logger.Debug("proxy: allowed connect", "host", host)
		} else {
			d.Logger.Warn("proxy: denied connect", "host", host)
		}
	}
	return ctx, ok
}

func requestHost(req *socks5.Request) string {
	if req == nil || req.DestAddr == nil {
		return ""
	}
	if req.DestAddr.FQDN != "" {
		return req.DestAddr.FQDN
	}
	return req.DestAddr.IP.String()
}

func (d *DomainRuleSet) hostAllowed(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, pattern := range d.Allowed {
		pattern = strings.ToLower(pattern)
		if pattern == "*" {
			return true
		}
		if strings.HasPrefix(pattern, "*.") {
			suffix := pattern[1:] // ".example.com"
			if host == pattern[2:] || strings.HasSuffix(host, suffix) {
				return true
			}
			continue
		}
		if host == pattern {
			return true
		}
	}
	return false
}

// Server wraps a socks5.Server bound to the domain allow list described in
// a sandbox config's network.allowedDomains.
type Server struct {
	inner *socks5.Server
}

// NewServer builds a SOCKS5 server that only permits CONNECTs to hosts in
// allowedDomains. An empty list denies every CONNECT.
func NewServer(allowedDomains []string, logger *slog.Logger) *Server {
	rules := &DomainRuleSet{Allowed: allowedDomains, Logger: logger}
	srv := socks5.NewServer(
		socks5.WithRule(rules),
		socks5.WithLogger(slogAdapter{logger}),
	)
	return &Server{inner: srv}
}

// ListenAndServe starts accepting connections on addr (e.g. "127.0.0.1:1080")
// and blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("nonoproxy: listen on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.inner.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		_ = ln.Close()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// slogAdapter bridges socks5.Logger to log/slog, so the socks5 library's
// error output goes through the same structured logger as the rest of
// cmd/nono instead of the dependency's own interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Error(fmt.Sprintf(format, args...))
}
