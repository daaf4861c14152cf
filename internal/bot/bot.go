package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/livedict/internal/clock"
	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/pkg/models"
)

// Sender is the part of the Telegram API the bot uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// StatisticsSource returns answer statistics since a given instant
type StatisticsSource interface {
	Get(ctx context.Context, since time.Time) (models.Statistics, error)
}

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

// Options configures a Bot
type Options struct {
	// Chats allowed to use the bot and receiving reminders; empty allows all
	ChatIDs    []int64
	Statistics StatisticsSource
	Clock      clock.Clock
	Logger     *slog.Logger
}

// Bot represents the Telegram bot application.
//
// Every access to the dictionary goes through mu, so the bot can serve as the
// scheduler's Source and Notifier while handling updates.
type Bot struct {
	api    Sender
	stats  StatisticsSource
	clock  clock.Clock
	logger *slog.Logger

	chatIDs      []int64
	allowedChats map[int64]bool

	mu             sync.Mutex
	dict           *dictionary.Dictionary
	awaitingImport map[int64]bool
}

// NewAPI connects to Telegram with the given token
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create bot")
	}
	return api, nil
}

// New creates a new bot instance
func New(api Sender, dict *dictionary.Dictionary, opts Options) *Bot {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	b := &Bot{
		api:            api,
		stats:          opts.Statistics,
		clock:          opts.Clock,
		logger:         opts.Logger,
		chatIDs:        append([]int64(nil), opts.ChatIDs...),
		allowedChats:   make(map[int64]bool, len(opts.ChatIDs)),
		dict:           dict,
		awaitingImport: make(map[int64]bool),
	}
	for _, id := range opts.ChatIDs {
		b.allowedChats[id] = true
	}
	return b
}

// Poll receives updates from Telegram until ctx is done
func (b *Bot) Poll(ctx context.Context, api *tgbotapi.BotAPI) error {
	b.logger.Info("authorized on account", "username", api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	err := b.Run(ctx, updates)
	api.StopReceivingUpdates()
	return err
}

// Run handles updates one at a time until ctx is done or updates is closed
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches a single update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		if !b.isAllowed(update.Message.Chat.ID) {
			b.logger.Warn("message from unknown chat", "chat_id", update.Message.Chat.ID)
			return
		}
		if update.Message.IsCommand() {
			err = b.HandleCommand(ctx, update.Message)
		} else {
			err = b.HandleText(ctx, update.Message)
		}
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		if !b.isAllowed(update.CallbackQuery.Message.Chat.ID) {
			b.logger.Warn("callback from unknown chat", "chat_id", update.CallbackQuery.Message.Chat.ID)
			return
		}
		err = b.HandleCallback(ctx, update.CallbackQuery)
	default:
		return
	}
	if err != nil {
		b.logger.Error("failed to handle update", "update_id", update.UpdateID, "error", err)
	}
}

// Summary reloads the dictionary and summarises it, for the scheduler
func (b *Bot) Summary(ctx context.Context) (dictionary.Summary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.dict.ReloadData(ctx); err != nil {
		return dictionary.Summary{}, err
	}
	return b.dict.Summary(), nil
}

// SendReminders implements the scheduler.Notifier interface
func (b *Bot) SendReminders(_ context.Context, summary dictionary.Summary) error {
	if len(b.chatIDs) == 0 {
		b.logger.Warn("no chats configured for reminders", "eligible", summary.Eligible)
		return nil
	}

	var failed error
	for _, chatID := range b.chatIDs {
		msg := tgbotapi.NewMessage(chatID, formatReminder(summary))
		msg.ReplyMarkup = createKeyboard(practiceButtons())
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("failed to send reminder", "chat_id", chatID, "error", err)
			failed = errors.Wrapf(err, "failed to send reminder to chat %d", chatID)
			continue
		}
		b.logger.Info("sent reminder", "chat_id", chatID, "eligible", summary.Eligible)
	}
	return failed
}

func (b *Bot) isAllowed(chatID int64) bool {
	return len(b.allowedChats) == 0 || b.allowedChats[chatID]
}

// sendMessage sends a message and wraps the error
func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send message")
	}
	return nil
}

// MainMenuButtons returns the buttons for the main menu
func MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Practice", CallbackData: callbackNext},
			{Text: "📊 Statistics", CallbackData: callbackStats},
		},
		{
			{Text: "📝 Add Words", CallbackData: callbackAddWords},
		},
	}
}

func practiceButtons() [][]MenuButton {
	return [][]MenuButton{{{Text: "🎯 Practice", CallbackData: callbackNext}}}
}
