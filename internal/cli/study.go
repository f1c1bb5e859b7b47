package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/example/verbtrainer/internal/keymap"
	"github.com/example/verbtrainer/internal/render"
	"github.com/example/verbtrainer/internal/session"
	"github.com/example/verbtrainer/internal/state"
	"github.com/spf13/cobra"
)

const studyHelp = "Enter/space: flip  n/→: next  p/←: prev  k: known  a: again  shuffle  reset  q: quit"

func init() {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study in the terminal",
		Run:   run("study", runStudy),
	}

	RootCmd.AddCommand(cmd)
}

func runStudy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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
	emptyText := render.NoDataText
	if loadErr != nil {
		emptyText = render.LoadFailedText
	}

	store := state.NewStore(kv, state.StorageKey)
	st, err := store.Load(ctx)
	if err != nil {
		log.Printf("Using default study state: %v", err)
	}

	s := session.New(ctx, deck, st, store)
	return studyLoop(ctx, s, emptyText, os.Stdin, os.Stdout)
}

// studyLoop shows the current card, reads one line of input and applies
// it until the user quits or input ends
func studyLoop(ctx context.Context, s *session.Session, emptyText string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, studyHelp)

	for {
		fmt.Fprintln(out)
		if s.Empty() {
			fmt.Fprintln(out, render.Empty(emptyText))
		} else {
			fmt.Fprintln(out, render.Session(s))
		}
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		action, quit, ok := keymap.ParseLine(scanner.Text())
		if quit {
			return nil
		}
		if !ok {
			fmt.Fprintln(out, studyHelp)
			continue
		}
		s.Apply(ctx, action)
	}
}
