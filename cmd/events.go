/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/duedesk/apiserver/config"
	"github.com/duedesk/apiserver/internal/logger"
	"github.com/duedesk/apiserver/internal/mq"
	"github.com/duedesk/apiserver/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// eventsCmd follows the event channel of the configured broker.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print domain events published by the server",
	Long: `Subscribes to MQ_CHANNEL on the broker selected by MQ_BACKEND and prints
every event as it arrives. Usage:

	MQ_BACKEND=rabbitmq duedesk events
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log, err := logger.New(cfg.Env)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if queue == nil {
			return errors.New("no broker configured; set MQ_BACKEND to rabbitmq or pubsub")
		}
		defer func() { _ = queue.Close() }()

		log.Info("subscribed", zap.String("backend", queue.Name()), zap.String("channel", cfg.MQ.Channel))
		err = queue.Subscribe(ctx, cfg.MQ.Channel, func(ctx context.Context, msg mq.Message) error {
			var event types.Event
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				log.Warn("skipping undecodable event", zap.String("id", msg.ID), zap.Error(err))
				return nil
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %-22s %-10s %s\n",
				event.OccurredAt.Format("15:04:05"), event.Type, event.Actor, event.Data)
			return err
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
