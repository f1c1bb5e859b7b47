// Package keymap binds keyboard keys to session actions.
package keymap

import (
	"strings"

	"github.com/example/verbtrainer/internal/session"
)

// Key names as reported by keyboard events
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeySpace      = " "
	KeyEnter      = "Enter"
)

// ANSI escape sequences for the arrow keys in a terminal
const (
	escArrowRight = "\x1b[C"
	escArrowLeft  = "\x1b[D"
)

var bindings = map[string]session.Action{
	KeyArrowRight: session.ActionNext,
	KeyArrowLeft:  session.ActionPrev,
	KeySpace:      session.ActionFlip,
	KeyEnter:      session.ActionFlip,
	"k":           session.ActionKnown,
	"a":           session.ActionAgain,
}

// Lookup returns the action bound to key. Keys are ignored while a text
// input has focus.
func Lookup(key string, textInputFocused bool) (session.Action, bool) {
	if textInputFocused {
		return "", false
	}
	if a, ok := bindings[key]; ok {
		return a, true
	}
	if len(key) == 1 {
		a, ok := bindings[strings.ToLower(key)]
		return a, ok
	}
	return "", false
}

// ParseLine maps one line of terminal input to an action. An empty line
// is the Enter key. Besides the key bindings it accepts arrow escape
// sequences and action names ("next", "shuffle", ...). quit reports
// whether the user asked to leave.
func ParseLine(line string) (action session.Action, quit bool, ok bool) {
	line = strings.TrimRight(line, "\r\n")

	switch line {
	case "":
		return session.ActionFlip, false, true
	case KeySpace:
		return session.ActionFlip, false, true
	case escArrowRight:
		return session.ActionNext, false, true
	case escArrowLeft:
		return session.ActionPrev, false, true
	}

	word := strings.ToLower(strings.TrimSpace(line))
	switch word {
	case "q", "quit", "exit":
		return "", true, true
	case "n", ">":
		return session.ActionNext, false, true
	case "p", "<":
		return session.ActionPrev, false, true
	case "f":
		return session.ActionFlip, false, true
	}
	if a, ok := session.ParseAction(word); ok {
		return a, false, true
	}
	if a, ok := Lookup(word, false); ok {
		return a, false, true
	}
	return "", false, false
}
