package bot

import (
	"fmt"

	"github.com/shrimpsizemoose/semla/internal/app"
)

type Settings struct {
	Token        string
	DefaultRound string
	UpcomingDays int
	admins       map[int64]bool
}

// SettingsFrom reads the [bot] section of the service config.
func SettingsFrom(config *app.Config) (*Settings, error) {
	if config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is not specified in config or SEMLA_BOT_TOKEN")
	}

	admins := make(map[int64]bool, len(config.Bot.Admins))
	for _, id := range config.Bot.Admins {
		admins[id] = true
	}

	return &Settings{
		Token:        config.Bot.Token,
		DefaultRound: config.Bot.Round,
		UpcomingDays: config.Schedules.UpcomingDays,
		admins:       admins,
	}, nil
}

func (s *Settings) IsAdmin(userID int64) bool {
	return s.admins[userID]
}
