// internal/infra/telegram/alerter.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// Alerter forwards operational failure notices to an admin Telegram chat.
// It implements app.Alerter and is entirely optional: the service runs fine
// without it.
type Alerter struct {
	bot         *telebot.Bot
	adminChatID int64
}

func NewAlerter(token string, adminChatID int64) (*Alerter, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, err
	}
	return &Alerter{bot: bot, adminChatID: adminChatID}, nil
}

// Alert sends text to the configured admin chat.
func (a *Alerter) Alert(text string) error {
	recipient := &telebot.User{ID: a.adminChatID}
	_, err := a.bot.Send(recipient, text, &telebot.SendOptions{})
	return err
}
