package main

import (
	"fmt"

	"github.com/spf13/cobra"

	infraRedis "github.com/kislikjeka/warungku/internal/infra/redis"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the monthly report cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached monthly report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is not configured")
		}

		ctx := cmd.Context()
		client, err := infraRedis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := infraRedis.NewReportCache(client, cfg.ReportCacheTTL, log).Clear(ctx); err != nil {
			return err
		}

		log.Info("report cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
