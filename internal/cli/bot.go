package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/verbtrainer/internal/bot"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Run:   run("bot", runBot),
	}

	RootCmd.AddCommand(cmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	kv, closeKV, err := openKV(ctx, cfg.State)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer closeKV()

	deck, loadErr := loadDeck(ctx, cfg.Vocab)

	b, err := bot.New(cfg.Bot, deck, loadErr, kv)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("Received signal: %v", sig)
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	startErr := b.Start(ctx)
	if startErr == context.Canceled {
		startErr = nil
	}
	cancel()

	<-done
	if startErr != nil {
		return startErr
	}
	log.Println("Bot stopped successfully")
	return nil
}
