package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	commandTimeout = 30 * time.Second
	retryPrefix    = "retry:"

	// Telegram rejects callback data longer than this
	maxCallbackData = 64
)

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	userID := message.From.ID
	b.config.Logger.Debug("Received message",
		zap.Int64("user_id", userID),
		zap.String("username", message.From.UserName))

	// Check if user is authorized
	if !b.authorize(userID) {
		b.sendUnauthorizedMessage(message.Chat.ID)
		return
	}

	if message.Text == "" {
		b.send(tgbotapi.NewMessage(message.Chat.ID,
			"❓ Unsupported message type. Use /help for the list of commands."))
		return
	}

	// Send typing indicator
	b.api.Request(tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping))

	reply := b.run(message.Text)

	msg := tgbotapi.NewMessage(message.Chat.ID, reply.Text)
	if reply.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if markup, ok := retryMarkup(reply.Retry); ok {
		msg.ReplyMarkup = markup
	}
	b.send(msg)
}

// handleCallback handles retry buttons
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.From == nil || callback.Message == nil {
		return
	}

	if !b.authorize(callback.From.ID) {
		b.api.Request(tgbotapi.NewCallback(callback.ID, "You are not authorized to use this bot"))
		return
	}

	command, ok := strings.CutPrefix(callback.Data, retryPrefix)
	if !ok {
		b.api.Request(tgbotapi.NewCallback(callback.ID, "Unknown action"))
		return
	}

	b.api.Request(tgbotapi.NewCallback(callback.ID, "Retrying..."))

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	b.send(tgbotapi.NewEditMessageText(chatID, messageID, "🔄 Retrying..."))

	reply := b.run(command)

	var edit tgbotapi.EditMessageTextConfig
	if markup, ok := retryMarkup(reply.Retry); ok {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, reply.Text, markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, reply.Text)
	}
	if reply.Markdown {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}
	b.send(edit)
}

// authorize gates every update on the allow list
func (b *Bot) authorize(userID int64) bool {
	if err := b.auth.Authorize(userID); err != nil {
		b.config.Logger.Info("Update refused",
			zap.String("user", b.auth.GetUserInfo(userID)),
			zap.Error(err))
		return false
	}
	return true
}

func (b *Bot) run(command string) Reply {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	name := ""
	if fields := strings.Fields(command); len(fields) > 0 {
		name = fields[0]
	}

	start := time.Now()
	reply := b.router.Handle(ctx, command)
	b.config.Logger.Debug("Command handled",
		zap.String("command", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("retryable", reply.Retry != ""))
	return reply
}

func retryMarkup(command string) (tgbotapi.InlineKeyboardMarkup, bool) {
	data := retryPrefix + command
	if command == "" || len(data) > maxCallbackData {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔄 Retry", data)),
	), true
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.config.Logger.Error("Failed to send message",
			zap.Error(err))
	}
}

func (b *Bot) sendUnauthorizedMessage(chatID int64) {
	b.send(tgbotapi.NewMessage(chatID,
		"🚫 You are not authorized to use this bot."))
}
