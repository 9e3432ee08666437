// Package notify pushes assignment notifications to officers over
// Telegram. Officers opt in by messaging the bot "/link <email>" from
// their own chat; the chat id is then stored on their user record.
package notify

import (
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crms/backend/internal/models"
	"crms/backend/internal/storage"
)

// TelegramNotifier sends outbound pings and handles the /link flow.
type TelegramNotifier struct {
	BotAPI  *tgbotapi.BotAPI
	Storage storage.Storage
}

// NewTelegramNotifier creates the notifier. An empty token is the
// caller's signal to run without notifications.
func NewTelegramNotifier(token string, s storage.Storage) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("INFO: Telegram notifier authorized on account %s", bot.Self.UserName)
	return &TelegramNotifier{BotAPI: bot, Storage: s}, nil
}

// NotifyAssigned pings the officer about a newly assigned complaint.
// Officers without a linked chat are skipped silently.
func (n *TelegramNotifier) NotifyAssigned(officer *models.User, c *models.Complaint) {
	if officer.TelegramChatID == 0 {
		return
	}
	text := fmt.Sprintf("Complaint assigned to you: %s (status: %s)", c.Title, c.Status)
	msg := tgbotapi.NewMessage(officer.TelegramChatID, text)
	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Telegram notify failed for user %s: %v", officer.ID, err)
	}
}

// Run polls Telegram for /link commands. It blocks; call it on its own
// goroutine.
func (n *TelegramNotifier) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range n.BotAPI.GetUpdatesChan(u) {
		if update.Message == nil {
			continue
		}
		chatID := update.Message.Chat.ID
		text := strings.TrimSpace(update.Message.Text)

		switch {
		case strings.HasPrefix(text, "/link "):
			email := strings.TrimSpace(strings.TrimPrefix(text, "/link "))
			n.reply(chatID, n.link(chatID, email))
		case text == "/start" || text == "/help":
			n.reply(chatID, "Send /link <email> to receive assignment notifications.")
		}
	}
}

func (n *TelegramNotifier) link(chatID int64, email string) string {
	user, err := n.Storage.GetUserByEmail(strings.ToLower(email))
	if errors.Is(err, storage.ErrNotFound) {
		return "No account with that email."
	}
	if err != nil {
		log.Printf("ERROR: Telegram link lookup failed: %v", err)
		return "Something went wrong, try again later."
	}

	user.TelegramChatID = chatID
	if err := n.Storage.UpdateUser(user); err != nil {
		log.Printf("ERROR: Telegram link save failed for user %s: %v", user.ID, err)
		return "Something went wrong, try again later."
	}
	return fmt.Sprintf("Linked. %s will get assignment notifications here.", user.DisplayName())
}

func (n *TelegramNotifier) reply(chatID int64, text string) {
	if _, err := n.BotAPI.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Telegram reply failed: %v", err)
	}
}
