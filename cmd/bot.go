package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/livedict/internal/bot"
	"github.com/example/livedict/internal/database"
	"github.com/example/livedict/internal/scheduler"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot with hourly practice reminders",
	Long: `Run the Telegram bot. TELEGRAM_BOT_TOKEN must be set. Reminders go to
the chats in TELEGRAM_CHAT_IDS during the notification hours; with no chats
configured they are only logged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		api, err := bot.NewAPI(a.config.TelegramToken)
		if err != nil {
			return err
		}
		d, err := a.openDictionary(ctx)
		if err != nil {
			return err
		}

		b := bot.New(api, d, bot.Options{
			ChatIDs:    a.config.TelegramChatIDs,
			Statistics: database.NewStatisticsRepository(a.db),
			Clock:      now,
			Logger:     a.logger,
		})

		var notifier scheduler.Notifier = b
		if len(a.config.TelegramChatIDs) == 0 {
			notifier = scheduler.LogNotifier{Logger: a.logger}
		}
		s := scheduler.New(b, notifier, a.config.Scheduler(), now, a.logger)

		a.logger.Info("bot started, press Ctrl+C to stop")
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return b.Poll(ctx, api)
		})
		g.Go(func() error {
			return s.Run(ctx)
		})
		if err := g.Wait(); err != nil && err != context.Canceled {
			return err
		}
		a.logger.Info("bot stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
