package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService sends messages through the Telegram Bot API. A shop owner
// may store their own bot credential; otherwise the platform bot token from
// the environment is used.
type TelegramService struct {
	defaultToken string
}

// Dispatch failure causes surfaced to the dashboard
var (
	ErrNoBotToken = fmt.Errorf("no bot token configured")
	ErrBadToken   = fmt.Errorf("bot token rejected by Telegram")
	ErrBadChatID  = fmt.Errorf("chat not found; check the chat id and that the bot was added to the chat")
)

// NewTelegramService creates a new Telegram service instance
func NewTelegramService() *TelegramService {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Printf("WARNING: TELEGRAM_BOT_TOKEN is not set; dispatch will require per-owner bot tokens")
	}
	return &TelegramService{defaultToken: token}
}

// ResolveToken picks the owner's stored credential, falling back to the
// platform bot token.
func (s *TelegramService) ResolveToken(ownerToken string) (string, error) {
	if ownerToken != "" {
		return ownerToken, nil
	}
	if s.defaultToken != "" {
		return s.defaultToken, nil
	}
	return "", ErrNoBotToken
}

// SendMessage pushes an HTML-formatted message to a chat. chatID is the
// opaque identifier Telegram hands out for groups/channels (numeric,
// possibly negative).
func (s *TelegramService) SendMessage(ownerToken, chatID, text string) error {
	token, err := s.ResolveToken(ownerToken)
	if err != nil {
		return err
	}

	numericChatID, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a chat id", ErrBadChatID, chatID)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		// NewBotAPI performs getMe; a 401 here means the token is bad
		return fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	msg := tgbotapi.NewMessage(numericChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := api.Send(msg); err != nil {
		return classifySendError(err)
	}
	return nil
}

// SendTestMessage delivers the fixed dispatch test used by the department
// editor.
func (s *TelegramService) SendTestMessage(ownerToken, chatID, departmentName string) error {
	text := fmt.Sprintf("✅ <b>Test notification</b>\n\nDepartment: %s\nIf you can read this, notifications for this chat are working.", departmentName)
	return s.SendMessage(ownerToken, chatID, text)
}

// classifySendError maps Telegram API errors onto the dashboard's failure
// taxonomy.
func classifySendError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unauthorized"):
		return fmt.Errorf("%w: %v", ErrBadToken, err)
	case strings.Contains(msg, "chat not found"), strings.Contains(msg, "bot was kicked"):
		return fmt.Errorf("%w: %v", ErrBadChatID, err)
	default:
		return err
	}
}
