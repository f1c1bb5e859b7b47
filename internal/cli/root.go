// Package cli implements the verbtrainer commands.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/verbtrainer/internal/config"
	"github.com/example/verbtrainer/internal/database"
	"github.com/example/verbtrainer/internal/queue"
	"github.com/example/verbtrainer/internal/state"
	"github.com/example/verbtrainer/internal/vocab"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbsPath  string
	dbPath     string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "verbtrainer",
	Short: "Flashcards for German strong verbs",
	Long:  "Study the Präteritum and Partizip II of German strong verbs in the terminal or through a Telegram bot. Words you miss come back more often.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./"+config.DefaultConfigFile+" if present)")
	RootCmd.PersistentFlags().StringVar(&verbsPath, "verbs", "", "Verbs JSON file (default: $VERBS_FILE or verbs.json)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database DSN or SQLite path (default: $DATABASE_URL or "+database.DefaultSQLitePath+")")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbsPath != "" {
		cfg.Vocab.File = verbsPath
	}
	if dbPath != "" {
		cfg.State.DatabaseURL = dbPath
	}
	return cfg, nil
}

// openKV opens the configured state backend. The returned close function
// is never nil.
func openKV(ctx context.Context, cfg config.StateConfig) (state.KV, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return state.NewMemoryKV(), func() error { return nil }, nil
	case config.BackendRedis:
		client, err := database.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		kv := database.NewRedisKV(client)
		return kv, kv.Close, nil
	default:
		db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return database.NewKVRepository(db), db.Close, nil
	}
}

// loadDeck loads the deck through the source chain. On failure the deck
// is empty and the error says why.
func loadDeck(ctx context.Context, cfg config.VocabConfig) (*queue.Deck, error) {
	res, err := vocab.Load(ctx, vocab.Chain(cfg.File, cfg.URL)...)
	if err != nil {
		log.Printf("Failed to load verbs: %v", err)
		return queue.NewDeck(nil), err
	}
	log.Printf("Loaded %d verbs from %s", len(res.Entries), res.Source)
	return queue.NewDeck(res.Entries), nil
}

// stateKey returns the key of the terminal state, or of a bot chat
func stateKey(chatID int64) string {
	if chatID != 0 {
		return state.ChatKey(chatID)
	}
	return state.StorageKey
}

// run adapts a command body to cobra. The body returns instead of
// exiting so its deferred cleanup (closing the state store) runs first.
func run(name string, body func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := body(cmd, args); err != nil {
			exitErr(name, err)
		}
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
