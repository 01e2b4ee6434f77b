package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramTransport adapts the Telegram API to the router's Transport
// interface.
type telegramTransport struct {
	api *tgbotapi.BotAPI
}

func newTelegramTransport(api *tgbotapi.BotAPI) *telegramTransport {
	return &telegramTransport{api: api}
}

// SendText sends a plain text message to a chat
func (t *telegramTransport) SendText(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendAudio uploads a local audio file to a chat
func (t *telegramTransport) SendAudio(chatID int64, filePath, title string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(filePath))
	audio.Title = title
	_, err := t.api.Send(audio)
	return err
}
