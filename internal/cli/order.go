package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/example/verbtrainer/internal/queue"
	"github.com/example/verbtrainer/internal/shuffle"
	"github.com/example/verbtrainer/internal/state"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the study queue for the saved weights",
		Run:   run("order", runOrder),
	}

	cmd.Flags().Int64P("seed", "s", 0, "Seed to use instead of the saved one")
	cmd.Flags().Int64("chat", 0, "Telegram chat whose state to use")

	RootCmd.AddCommand(cmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
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

	deck, _ := loadDeck(ctx, cfg.Vocab)

	st, err := state.NewStore(kv, stateKey(chatID)).Load(ctx)
	if err != nil {
		log.Printf("Using default study state: %v", err)
	}
	note := ""
	switch {
	case cmd.Flags().Changed("seed"):
		seed, _ := cmd.Flags().GetInt64("seed")
		st.SetSeed(shuffle.SeedFromInt(seed))
		note = notePreviewSeed
	case st.OrderSeed == nil:
		note = noteFreshSeed
	}

	order, seed := queue.BuildOrder(deck, st.Weights, st.OrderSeed, queue.RandomSeed)
	writeOrder(cmd.OutOrStdout(), deck, st.Weights, order, seed, note)
	return nil
}

// Notes on orders whose seed is not the saved one. order never writes
// state; the next study session picks and saves its own seed.
const (
	notePreviewSeed = "preview, seed not saved"
	noteFreshSeed   = "preview, no saved seed yet: the next study session picks its own"
)

func writeOrder(w io.Writer, deck *queue.Deck, weights map[string]int, order []int, seed uint32, note string) {
	if note != "" {
		fmt.Fprintf(w, "seed: %d (%s)\n", seed, note)
	} else {
		fmt.Fprintf(w, "seed: %d\n", seed)
	}
	for i, idx := range order {
		e := deck.At(idx)
		fmt.Fprintf(w, "%3d. %s (weight %d)\n", i+1, e.Infinitive, queue.WeightOf(weights, e.Key()))
	}
}
