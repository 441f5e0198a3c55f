package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/app"
)

// Bot answers read-only questions about the competition over Telegram.
type Bot struct {
	settings *Settings
	service  *app.Service
	api      *tgbotapi.BotAPI
}

func New(settings *Settings, service *app.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(settings.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	return &Bot{
		settings: settings,
		service:  service,
		api:      api,
	}, nil
}

func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			go b.handleMessage(ctx, update.Message)

		case <-ctx.Done():
			logger.Info.Println("Shutting down bot...")
			return nil
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := b.reply(ctx, msg)
	if err := b.sendMessage(msg.Chat.ID, text); err != nil {
		logger.Error.Printf("Failed to reply to chat %d: %v", msg.Chat.ID, err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
