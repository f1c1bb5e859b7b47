package cli

import (
	"fmt"

	"github.com/example/verbtrainer/internal/state"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget all weights and the saved seed",
		Run:   run("reset", runReset),
	}

	cmd.Flags().Int64("chat", 0, "Telegram chat to reset instead of the terminal state")

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	chatID, _ := cmd.Flags().GetInt64("chat")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	kv, closeKV, err := openKV(ctx, cfg.State)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer closeKV()

	store := state.NewStore(kv, stateKey(chatID))
	if err := store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Key())
	return nil
}
