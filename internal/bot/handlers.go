package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/example/verbtrainer/internal/keymap"
	"github.com/example/verbtrainer/internal/render"
	"github.com/example/verbtrainer/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for callback data
const (
	callbackShowCard = "show_card"
)

const helpText = `Strong verbs flashcards 🇩🇪

Every card shows an infinitive. Flip it to see the Präteritum and the Partizip II, then rate yourself:
✅ Known - the verb comes up less often
🔁 Again - the verb comes up more often, starting right now

Commands:
/card - Show the current card
/stats - Show your weights
/remind - Send the study reminder now
/help - Show this message

You can also type: n (next), p (prev), space or f (flip), k (known), a (again), shuffle, reset`

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil:
		if update.Message.IsCommand() {
			err = b.HandleCommand(ctx, update.Message)
		} else {
			err = b.handleText(ctx, update.Message)
		}
	case update.CallbackQuery != nil:
		err = b.HandleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		log.Printf("Error handling update %d: %v", update.UpdateID, err)
	}
}

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message == nil || message.Chat == nil {
		return fmt.Errorf("invalid message: required fields are missing")
	}

	switch message.Command() {
	case "start", "card":
		return b.sendCard(ctx, message.Chat.ID)
	case "help":
		return b.send(ctx, tgbotapi.NewMessage(message.Chat.ID, helpText))
	case "stats":
		return b.handleStats(ctx, message.Chat.ID)
	case "remind":
		return b.handleRemind(ctx, message.Chat.ID)
	default:
		return b.send(ctx, tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /help to see what I can do."))
	}
}

// handleText maps typed keys to card actions
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	if message.Chat == nil {
		return fmt.Errorf("invalid message: chat is missing")
	}

	action, quit, ok := keymap.ParseLine(message.Text)
	if !ok || quit {
		return b.send(ctx, tgbotapi.NewMessage(message.Chat.ID, "I don't understand. Use /card to show the current card."))
	}

	cs := b.chat(ctx, message.Chat.ID)
	cs.mu.Lock()
	cs.session.Apply(ctx, action)
	text := b.cardText(cs.session)
	cs.mu.Unlock()

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = createKeyboard(CardButtons())
	return b.send(ctx, msg)
}

// HandleCallback handles inline keyboard presses
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback == nil || callback.Message == nil || callback.Message.Chat == nil {
		return fmt.Errorf("invalid callback data: required fields are missing")
	}

	// Always send an answer to the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Warning: Failed to answer callback: %v", err)
	}

	chatID := callback.Message.Chat.ID

	if callback.Data == callbackShowCard {
		return b.sendCard(ctx, chatID)
	}

	action, ok := session.ParseAction(callback.Data)
	if !ok {
		return b.send(ctx, tgbotapi.NewMessage(chatID, "⚠️ Unknown action"))
	}

	cs := b.chat(ctx, chatID)
	cs.mu.Lock()
	cs.session.Apply(ctx, action)
	text := b.cardText(cs.session)
	cs.mu.Unlock()

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, callback.Message.MessageID, text, createKeyboard(CardButtons()))
	err := b.send(ctx, edit)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		// Navigating a one-card queue renders the same text again
		return nil
	}
	return err
}

// sendCard sends the current card as a new message
func (b *Bot) sendCard(ctx context.Context, chatID int64) error {
	cs := b.chat(ctx, chatID)
	cs.mu.Lock()
	text := b.cardText(cs.session)
	cs.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(CardButtons())
	return b.send(ctx, msg)
}

// handleStats shows the weight distribution of the chat
func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	cs := b.chat(ctx, chatID)
	cs.mu.Lock()
	text := "📊 " + render.Stats(cs.session.Stats())
	cs.mu.Unlock()

	return b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

// handleRemind sends the daily reminder on demand
func (b *Bot) handleRemind(ctx context.Context, chatID int64) error {
	b.chat(ctx, chatID)
	sent, err := b.scheduler.RunManualCheck(chatID)
	if err != nil {
		return err
	}
	if !sent {
		return b.send(ctx, tgbotapi.NewMessage(chatID, "Nothing to remind you of: your queue is empty."))
	}
	return nil
}
