package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/example/verbtrainer/internal/state"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the saved study state",
		Run:   run("state", runState),
	}

	cmd.Flags().Int64("chat", 0, "Telegram chat whose state to print")

	RootCmd.AddCommand(cmd)
}

func runState(cmd *cobra.Command, args []string) error {
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

	raw, ok, err := kv.Get(ctx, stateKey(chatID))
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	printState(cmd.OutOrStdout(), raw, ok)
	return nil
}

// printState pretty-prints a stored blob. Blobs that do not decode are
// printed as stored.
func printState(w io.Writer, raw []byte, ok bool) {
	if !ok {
		fmt.Fprintln(w, "no saved state")
		return
	}
	if _, err := state.Decode(raw); err != nil {
		fmt.Fprintf(w, "%s\n(unreadable: %v)\n", raw, err)
		return
	}
	var v interface{}
	json.Unmarshal(raw, &v)
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}
