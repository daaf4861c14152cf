package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/livedict/internal/dictionary"
	"github.com/example/livedict/internal/excel"
	"github.com/example/livedict/pkg/models"
)

// Constants for callback data
const (
	callbackNext      = "next"
	callbackStats     = "stats"
	callbackAddWords  = "add_words"
	callbackReveal    = "reveal"
	callbackCorrect   = "correct"
	callbackIncorrect = "incorrect"
)

const welcomeText = `Welcome to LiveDict! 🎓

Available commands:
/next - Practice the next translation
/add foreign - native - Add a translation (without arguments: send a list)
/delete <id> - Delete a translation
/label <id> <A-D> - Label a translation
/unlabel <id> <A-D> - Remove a label
/stats - Show your statistics`

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start", "help", "menu":
		return b.handleStart(chatID)
	case "next":
		return b.askNext(ctx, chatID)
	case "add":
		return b.handleAdd(ctx, chatID, args)
	case "delete":
		return b.handleDelete(ctx, chatID, args)
	case "label":
		return b.handleLabel(ctx, chatID, args, true)
	case "unlabel":
		return b.handleLabel(ctx, chatID, args, false)
	case "stats":
		return b.handleStats(ctx, chatID)
	default:
		return b.handleUnknownCommand(chatID)
	}
}

// HandleText handles plain messages, which are only expected after /add
func (b *Bot) HandleText(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	b.mu.Lock()
	awaiting := b.awaitingImport[chatID]
	delete(b.awaitingImport, chatID)
	b.mu.Unlock()

	if !awaiting {
		msg := tgbotapi.NewMessage(chatID, "I don't understand. Use /menu to show the main menu.")
		msg.ReplyMarkup = createKeyboard(MainMenuButtons())
		return b.sendMessage(msg)
	}
	return b.processWordList(ctx, chatID, message.Text)
}

// HandleCallback handles presses on inline buttons
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Always send an answer to the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", "error", err)
	}

	chatID := callback.Message.Chat.ID
	action, id, err := parseCallback(callback.Data)
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Unknown action"))
	}

	switch action {
	case callbackNext:
		return b.askNext(ctx, chatID)
	case callbackStats:
		return b.handleStats(ctx, chatID)
	case callbackAddWords:
		return b.handleAdd(ctx, chatID, "")
	case callbackReveal:
		return b.handleReveal(ctx, callback.Message, id)
	case callbackCorrect:
		return b.handleAnswer(ctx, callback.Message, id, models.Correct)
	case callbackIncorrect:
		return b.handleAnswer(ctx, callback.Message, id, models.Incorrect)
	default:
		return b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Unknown action"))
	}
}

func (b *Bot) handleStart(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, welcomeText)
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Unknown command. Use /menu to show the main menu.")
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	return b.sendMessage(msg)
}

// askNext sends the next question, or explains why there is none
func (b *Bot) askNext(_ context.Context, chatID int64) error {
	b.mu.Lock()
	t, err := b.dict.GetRandomTranslation()
	summary := b.dict.Summary()
	b.mu.Unlock()

	if errors.Is(err, dictionary.ErrPoolExhausted) {
		msg := tgbotapi.NewMessage(chatID, formatExhausted(summary))
		msg.ReplyMarkup = createKeyboard(MainMenuButtons())
		return b.sendMessage(msg)
	}
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, formatQuestion(t))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "👀 Show answer", CallbackData: callbackData(callbackReveal, t.ID)}},
	})
	return b.sendMessage(msg)
}

func (b *Bot) handleReveal(ctx context.Context, message *tgbotapi.Message, id int64) error {
	t, ok, err := b.findTranslation(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "⚠️ This translation no longer exists."))
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(message.Chat.ID, message.MessageID, formatAnswer(t), createKeyboard([][]MenuButton{
		{
			{Text: "✅ I knew it", CallbackData: callbackData(callbackCorrect, t.ID)},
			{Text: "❌ I didn't", CallbackData: callbackData(callbackIncorrect, t.ID)},
		},
	}))
	return b.sendMessage(edit)
}

func (b *Bot) handleAnswer(ctx context.Context, message *tgbotapi.Message, id int64, outcome models.Outcome) error {
	t, ok, err := b.findTranslation(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		b.mu.Lock()
		ok, err = b.dict.Mark(ctx, t, outcome)
		b.mu.Unlock()
		if err != nil {
			return err
		}
	}
	if !ok {
		return b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, "⚠️ This translation no longer exists."))
	}

	mark := "✅"
	if outcome == models.Incorrect {
		mark = "❌"
	}
	edit := tgbotapi.NewEditMessageText(message.Chat.ID, message.MessageID, mark+" "+formatAnswer(t))
	if err := b.sendMessage(edit); err != nil {
		b.logger.Warn("failed to edit answered question", "error", err)
	}
	return b.askNext(ctx, message.Chat.ID)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		b.mu.Lock()
		b.awaitingImport[chatID] = true
		b.mu.Unlock()
		return b.sendMessage(tgbotapi.NewMessage(chatID, "Send me your list of words in the format:\n"+
			"foreign - native\n\n"+
			"Example:\n"+
			"rojo - red\n"+
			"verde - green"))
	}

	t, err := excel.ParseLine(args)
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Use /add foreign - native"))
	}

	b.mu.Lock()
	inserted, err := b.dict.Insert(ctx, t)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if !inserted {
		return b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("ℹ️ %q is already in your dictionary.", t.String())))
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Added %q.", t.String())))
}

// processWordList imports one "foreign - native" pair per line
func (b *Bot) processWordList(ctx context.Context, chatID int64, text string) error {
	result, err := excel.ImportText(ctx, strings.NewReader(text), dictionaryInserter{b})
	if err != nil {
		return err
	}

	var resultMsg strings.Builder
	fmt.Fprintf(&resultMsg, "✅ Words processed:\n- Added: %d\n- Already known: %d\n", result.Created, result.Skipped)
	if len(result.Errors) > 0 {
		fmt.Fprintf(&resultMsg, "\n❌ Errors (%d):\n", len(result.Errors))
		for _, errMsg := range result.Errors {
			resultMsg.WriteString("- " + errMsg + "\n")
		}
	}

	msg := tgbotapi.NewMessage(chatID, resultMsg.String())
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, args string) error {
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, "⚠️ Use /delete <id>"))
	}
	t, ok, err := b.findTranslation(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("⚠️ No translation with id %d.", id)))
	}

	b.mu.Lock()
	err = b.dict.Delete(ctx, t)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("🗑 Deleted %q.", t.String())))
}

func (b *Bot) handleLabel(ctx context.Context, chatID int64, args string, add bool) error {
	usage := "⚠️ Use /label <id> <A-D>"
	if !add {
		usage = "⚠️ Use /unlabel <id> <A-D>"
	}
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return b.sendMessage(tgbotapi.NewMessage(chatID, usage))
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, usage))
	}
	label, err := models.ParseLabel(fields[1])
	if err != nil {
		return b.sendMessage(tgbotapi.NewMessage(chatID, usage))
	}
	t, found, err := b.findTranslation(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("⚠️ No translation with id %d.", id)))
	}

	b.mu.Lock()
	if add {
		_, err = b.dict.AddLabel(ctx, t, label)
	} else {
		_, err = b.dict.RemoveLabel(ctx, t, label)
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}

	verb := "Labelled"
	if !add {
		verb = "Unlabelled"
	}
	return b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("🏷 %s %q with %s (%s).", verb, t.String(), label, label.Colour())))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	b.mu.Lock()
	summary := b.dict.Summary()
	b.mu.Unlock()

	var stats *models.Statistics
	if b.stats != nil {
		s, err := b.stats.Get(ctx, startOfDay(b.clock.Now()))
		if err != nil {
			return err
		}
		stats = &s
	}

	msg := tgbotapi.NewMessage(chatID, formatStats(summary, stats))
	msg.ReplyMarkup = createKeyboard(practiceButtons())
	return b.sendMessage(msg)
}

// findTranslation looks a translation up among everything stored, excluded
// ones included
func (b *Bot) findTranslation(ctx context.Context, id int64) (models.Translation, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	all, err := b.dict.All(ctx)
	if err != nil {
		return models.Translation{}, false, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, true, nil
		}
	}
	return models.Translation{}, false, nil
}

// dictionaryInserter lets the text importer insert through the dictionary
type dictionaryInserter struct {
	b *Bot
}

func (i dictionaryInserter) InsertSingle(ctx context.Context, t models.Translation) (bool, error) {
	i.b.mu.Lock()
	defer i.b.mu.Unlock()
	return i.b.dict.Insert(ctx, t)
}

func callbackData(action string, id int64) string {
	return action + ":" + strconv.FormatInt(id, 10)
}

// parseCallback splits "action:id"; actions without an id yield id 0
func parseCallback(data string) (string, int64, error) {
	action, rawID, found := strings.Cut(data, ":")
	if action == "" {
		return "", 0, errors.Errorf("empty callback data %q", data)
	}
	if !found {
		return action, 0, nil
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, errors.Errorf("invalid id in callback data %q", data)
	}
	return action, id, nil
}

func formatQuestion(t models.Translation) string {
	return fmt.Sprintf("❓ %s\n\n#%d", t.ForeignWord, t.ID)
}

func formatAnswer(t models.Translation) string {
	return fmt.Sprintf("%s - %s", t.ForeignWord, t.NativeWord)
}

func formatReminder(s dictionary.Summary) string {
	text := fmt.Sprintf("🔔 %d translations are waiting for practice", s.Eligible)
	if s.Difficult > 0 {
		text += fmt.Sprintf(", %d of them difficult", s.Difficult)
	}
	return text + "."
}

func formatExhausted(s dictionary.Summary) string {
	switch {
	case s.Total == 0:
		return "📭 Your dictionary is empty. Add words with /add."
	case s.NextUnlock.IsZero():
		return "🎉 Nothing to practice right now."
	default:
		wait := s.NextUnlock.Sub(s.At).Round(time.Minute)
		return fmt.Sprintf("🎉 Nothing to practice right now. The next translation unlocks in %s (%s UTC).",
			wait, s.NextUnlock.UTC().Format("15:04"))
	}
}

func formatStats(s dictionary.Summary, stats *models.Statistics) string {
	var text strings.Builder
	text.WriteString("📊 Your dictionary:\n")
	fmt.Fprintf(&text, "- Translations: %d (%d excluded by labels)\n", s.Total, s.Excluded)
	fmt.Fprintf(&text, "- Ready to practice: %d\n", s.Eligible)
	fmt.Fprintf(&text, "- Resting: %d\n", s.Resting)
	fmt.Fprintf(&text, "- Difficult: %d\n", s.Difficult)
	if stats != nil {
		text.WriteString("\n📝 Answers:\n")
		fmt.Fprintf(&text, "- Total: %d (%d%% correct)\n", stats.TotalAnswers, stats.Accuracy())
		fmt.Fprintf(&text, "- Today: %d\n", stats.AnsweredToday)
	}
	return text.String()
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
