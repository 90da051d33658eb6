/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/folioworks/portfolio/internal/mq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect submission events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Log every contact and feedback event until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := mq.Open(ctx, cfg.Events)
		if err != nil {
			return err
		}
		if events == nil {
			return errors.New("EVENTS_BACKEND is not set")
		}
		defer events.Close()

		return watchChannels(ctx, events, mq.Channels)
	},
}

type subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// watchChannels logs every channel until ctx is done. The first subscription
// failure stops the others and is returned.
func watchChannels(ctx context.Context, sub subscriber, channels []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, channel := range channels {
		channel := channel
		g.Go(func() error {
			log.Info().Str("channel", channel).Msg("watching")
			err := sub.Subscribe(ctx, channel, logEvent(channel))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

func logEvent(channel string) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		evt, err := mq.DecodeEvent(msg.Data)
		if err != nil {
			log.Warn().Err(err).Str("channel", channel).Str("message_id", msg.ID).Msg("undecodable event")
			return nil
		}
		log.Info().
			Str("channel", channel).
			Str("event_id", evt.ID).
			Str("type", evt.Type).
			Time("occurred_at", evt.OccurredAt).
			RawJSON("payload", evt.Payload).
			Msg("event")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)
}
