package bot

import (
	"github.com/example/verbtrainer/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// CardButtons returns the buttons shown under every card
func CardButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🔄 Flip", CallbackData: string(session.ActionFlip)},
		},
		{
			{Text: "◀️ Prev", CallbackData: string(session.ActionPrev)},
			{Text: "Next ▶️", CallbackData: string(session.ActionNext)},
		},
		{
			{Text: "✅ Known", CallbackData: string(session.ActionKnown)},
			{Text: "🔁 Again", CallbackData: string(session.ActionAgain)},
		},
		{
			{Text: "🔀 Shuffle", CallbackData: string(session.ActionShuffle)},
			{Text: "♻️ Reset", CallbackData: string(session.ActionReset)},
		},
	}
}
