package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/example/verbtrainer/internal/config"
	"github.com/example/verbtrainer/internal/queue"
	"github.com/example/verbtrainer/internal/render"
	"github.com/example/verbtrainer/internal/scheduler"
	"github.com/example/verbtrainer/internal/session"
	"github.com/example/verbtrainer/internal/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// keyLister is implemented by KV backends that can enumerate keys
type keyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// chatSession is one chat's study session. mu serializes updates of the
// chat, the session itself is not safe for concurrent use.
type chatSession struct {
	mu      sync.Mutex
	session *session.Session
}

// Bot represents the Telegram front end. Every chat studies the same
// deck with its own persisted state.
type Bot struct {
	api       telegramAPI
	config    config.BotConfig
	deck      *queue.Deck
	emptyText string
	kv        state.KV
	limiter   *rate.Limiter
	scheduler *scheduler.Scheduler

	mu      sync.Mutex
	chats   map[int64]*chatSession
	workers map[int64]chan tgbotapi.Update
	wg      sync.WaitGroup
}

// updateBuffer is how many updates of one chat may wait for its worker
const updateBuffer = 32

// New creates a new bot instance. loadErr is the deck loading failure,
// if any, and only changes what an empty deck looks like.
func New(cfg config.BotConfig, deck *queue.Deck, loadErr error, kv state.KV) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	if kv == nil {
		return nil, fmt.Errorf("state store is required")
	}

	emptyText := render.NoDataText
	if loadErr != nil {
		emptyText = render.LoadFailedText
	}

	burst := cfg.SendBurst
	if burst < 1 {
		burst = 1
	}

	b := &Bot{
		config:    cfg,
		deck:      deck,
		emptyText: emptyText,
		kv:        kv,
		limiter:   rate.NewLimiter(rate.Limit(cfg.SendRatePerSec), burst),
		chats:     make(map[int64]*chatSession),
		workers:   make(map[int64]chan tgbotapi.Update),
	}
	b.scheduler = scheduler.New(b, cfg.ReminderHour)
	return b, nil
}

// Start connects to Telegram and handles updates until ctx is done
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.config.Token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	if b.config.EnableScheduler {
		if err := b.scheduler.Start(); err != nil {
			return err
		}
	}

	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := botAPI.GetUpdatesChan(updateConfig)

	defer b.closeWorkers()
	for {
		select {
		case <-ctx.Done():
			botAPI.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// updateChatID returns the chat an update belongs to
func updateChatID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}

// dispatch hands update to the worker of its chat. Each chat has one
// worker, so a chat's updates are applied in the order they arrived
// while different chats proceed in parallel. Must not be called after
// closeWorkers.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	chatID, ok := updateChatID(update)
	if !ok {
		b.handleUpdate(ctx, update)
		return
	}

	b.mu.Lock()
	ch, ok := b.workers[chatID]
	if !ok {
		ch = make(chan tgbotapi.Update, updateBuffer)
		b.workers[chatID] = ch
		b.wg.Add(1)
		go b.work(ctx, ch)
	}
	b.mu.Unlock()

	ch <- update
}

func (b *Bot) work(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer b.wg.Done()
	for update := range updates {
		b.handleUpdate(ctx, update)
	}
}

// closeWorkers stops accepting updates and waits until every queued
// update has been handled
func (b *Bot) closeWorkers() {
	b.mu.Lock()
	for id, ch := range b.workers {
		close(ch)
		delete(b.workers, id)
	}
	b.mu.Unlock()
	b.wg.Wait()
}

// Stop gracefully stops the bot
func (b *Bot) Stop(_ context.Context) error {
	if b.config.EnableScheduler {
		b.scheduler.Stop()
	}
	log.Println("Bot stopped")
	return nil
}

// chat returns the session of chatID, loading its state on first use
func (b *Bot) chat(ctx context.Context, chatID int64) *chatSession {
	b.mu.Lock()
	cs, ok := b.chats[chatID]
	b.mu.Unlock()
	if ok {
		return cs
	}

	// Load outside b.mu; a concurrent caller may insert first
	store := state.NewStore(b.kv, state.ChatKey(chatID))
	st, err := store.Load(ctx)
	if err != nil {
		log.Printf("Using default study state for chat %d: %v", chatID, err)
	}
	loaded := &chatSession{
		session: session.New(ctx, b.deck, st, store, session.WithName(fmt.Sprintf("chat %d", chatID))),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if cs, ok := b.chats[chatID]; ok {
		return cs
	}
	b.chats[chatID] = loaded
	return loaded
}

// send delivers a message within the outbound rate limit
func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := b.api.Send(c)
	return err
}

// cardText renders the chat's current card or the empty-deck screen
func (b *Bot) cardText(s *session.Session) string {
	if s.Empty() {
		return render.Empty(b.emptyText)
	}
	return render.Session(s)
}

// ReminderTargets implements the scheduler.Notifier interface. Chats
// with persisted state are included even if they have not written since
// the bot started.
func (b *Bot) ReminderTargets() []scheduler.Target {
	ctx := context.Background()

	if lister, ok := b.kv.(keyLister); ok {
		keys, err := lister.Keys(ctx, state.StorageKey+":")
		if err != nil {
			log.Printf("Error listing stored chats: %v", err)
		}
		for _, key := range keys {
			id, err := strconv.ParseInt(strings.TrimPrefix(key, state.StorageKey+":"), 10, 64)
			if err != nil {
				continue
			}
			b.chat(ctx, id)
		}
	}

	b.mu.Lock()
	chats := make(map[int64]*chatSession, len(b.chats))
	for id, cs := range b.chats {
		chats[id] = cs
	}
	b.mu.Unlock()

	targets := make([]scheduler.Target, 0, len(chats))
	for id, cs := range chats {
		cs.mu.Lock()
		targets = append(targets, scheduler.Target{ChatID: id, Cards: len(cs.session.Order())})
		cs.mu.Unlock()
	}
	return targets
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(chatID int64, cards int) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("You have %d cards in your queue. Time for a round of strong verbs!", cards))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "🎯 Start", CallbackData: callbackShowCard}}})

	err := b.send(context.Background(), msg)
	if err != nil {
		log.Printf("Error sending reminder to chat %d: %v", chatID, err)
	} else {
		log.Printf("Successfully sent reminder to chat %d for %d cards", chatID, cards)
	}
	return err
}
