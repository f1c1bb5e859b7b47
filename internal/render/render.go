// Package render formats session cards as plain text.
package render

import (
	"fmt"
	"strings"

	"github.com/example/verbtrainer/internal/session"
)

const (
	// BarWidth is the number of cells in the progress bar
	BarWidth = 20

	NoDataText     = "No data"
	LoadFailedText = "Failed to load verbs"
)

// Progress returns "pos / total"
func Progress(pos, total int) string {
	return fmt.Sprintf("%d / %d", pos, total)
}

// Bar draws percent as a bar of BarWidth cells
func Bar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := (percent*BarWidth + 50) / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", BarWidth-filled) + "]"
}

// Translation formats the optional English gloss
func Translation(tr string) string {
	if tr == "" {
		return ""
	}
	return "EN: " + tr
}

// Card renders the visible face of a card with its progress line
func Card(c session.Card) string {
	var b strings.Builder

	if c.Flipped {
		fmt.Fprintf(&b, "Präteritum:  %s\n", c.Preterite)
		fmt.Fprintf(&b, "Partizip II: %s\n", c.PastParticiple)
	} else {
		fmt.Fprintf(&b, "%s\n", c.Infinitive)
	}
	if tr := Translation(c.Translation); tr != "" {
		fmt.Fprintf(&b, "%s\n", tr)
	}

	fmt.Fprintf(&b, "\n%s %s", Progress(c.Position, c.Total), Bar(c.Percent))
	return b.String()
}

// Session renders the current card of s, or the no-data screen
func Session(s *session.Session) string {
	c, ok := s.Card()
	if !ok {
		return Empty(NoDataText)
	}
	return Card(c)
}

// Empty renders a screen without a card
func Empty(message string) string {
	return fmt.Sprintf("%s\n\n%s %s", message, Progress(0, 0), Bar(0))
}

// Stats renders a session summary
func Stats(st session.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Words: %d\n", st.Words)
	fmt.Fprintf(&b, "Queue length: %d\n", st.QueueLength)
	fmt.Fprintf(&b, "Seed: %d\n", st.Seed)
	for w := 1; w <= 6; w++ {
		if n := st.ByWeight[w]; n > 0 {
			fmt.Fprintf(&b, "Weight %d: %d\n", w, n)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
