package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Use-Tusk/nono/internal/nonoconfig"
	"github.com/Use-Tusk/nono/internal/nonoproxy"
)

func newProxyCmd() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Run a SOCKS5 egress proxy restricted to a config's allowed domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := nonoconfig.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := nonoproxy.NewServer(cfg.Network.AllowedDomains, logger)
			logger.Info("starting socks5 proxy", "addr", addr, "allowed_domains", len(cfg.Network.AllowedDomains))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a nono sandbox config (JSONC)")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:1080", "address to listen on")
	return cmd
}
