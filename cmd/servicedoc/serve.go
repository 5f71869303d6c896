package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	sdhttp "github.com/fwojciec/servicedoc/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is cancelled
// and then shuts the server down.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr, err := c.listenAddr()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if c.CacheTTL > 0 && deps.Cache != nil {
		n, err := deps.Cache.PruneParseResults(deps.Ctx, deps.Now().Add(-c.CacheTTL))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error pruning parse cache: %v\n", err)
			return err
		}
		deps.Logger.Info("pruned parse cache", "removed", n, "ttl", c.CacheTTL)
	}

	opts := []sdhttp.Option{
		sdhttp.WithAddr(addr),
		sdhttp.WithRateLimit(c.RateLimit, c.RateBurst),
		sdhttp.WithTrustProxy(c.TrustProxy),
		sdhttp.WithLogger(deps.Logger),
	}
	if len(c.AllowedOrigins) > 0 {
		opts = append(opts, sdhttp.WithAllowedOrigins(c.AllowedOrigins))
	}

	s := sdhttp.NewServer(opts...)
	s.Now = deps.Now
	s.Parser = deps.Parser
	s.TemplateService = deps.Templates
	s.PersonnelService = deps.Personnel
	s.BulletinRenderer = deps.Bulletins
	s.SlideRenderer = deps.Slides

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", s.Addr())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(s.Serve)
	g.Go(func() error { return s.SweepLimiters(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), sdhttp.DefaultShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// listenAddr applies --port to the host of --addr.
func (c *ServeCmd) listenAddr() (string, error) {
	if c.Port == 0 {
		return c.Addr, nil
	}
	if c.Port < 0 || c.Port > 65535 {
		return "", fmt.Errorf("invalid port %d", c.Port)
	}
	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port)), nil
}
