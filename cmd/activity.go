package main

import (
	"errors"

	"todo-web/internal/queue"
	"todo-web/internal/worker"
	"todo-web/pkg/logger"

	"github.com/spf13/cobra"
)

func newActivityCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Tail the todo change feed and log every event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if !cfg.EventsEnabled() {
				return errors.New("KAFKA_BROKERS is not set")
			}
			ctx := cmd.Context()
			queue.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPartitions)
			reader := worker.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
			w := worker.New(reader, worker.LogActivity)
			logger.Info(ctx, "Activity consumer starting", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
			if err := w.Run(ctx); err != nil {
				return err
			}
			logger.Info(ctx, "Activity consumer stopped", "processed", w.Processed(), "failed", w.Failed())
			return nil
		},
	}
}
