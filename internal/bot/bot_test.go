package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/files"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
	"github.com/shrimpsizemoose/semla/migrations"
)

const adminID = 42

func setupBot(t *testing.T) (*Bot, *app.Service) {
	s, err := sqlite.NewSQLiteStore(":memory:", migrations.FS)
	require.NoError(t, err)

	fileStore, err := files.New(t.TempDir(), files.Options{})
	require.NoError(t, err)

	config := &app.Config{}
	config.Bot.Token = "token"
	config.Bot.Admins = []int64{adminID}
	config.Schedules.UpcomingDays = 7

	service := app.New(config, &s.BaseStore, fileStore, nil)
	t.Cleanup(func() { service.Close() })

	settings, err := SettingsFrom(config)
	require.NoError(t, err)

	return &Bot{settings: settings, service: service}, service
}

func message(text string, from int64) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from},
	}
	if strings.HasPrefix(text, "/") {
		name, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}}
	}
	return msg
}

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, service *app.Service) (alpha, beta *models.Team) {
	ctx := context.Background()

	var err error
	alpha, err = service.Teams.Create(ctx, &models.TeamCreate{TeamName: "Alpha", Slogan: "ship it", Username: "alpha", Password: "secret1"})
	require.NoError(t, err)
	beta, err = service.Teams.Create(ctx, &models.TeamCreate{TeamName: "Beta", Username: "beta", Password: "secret1"})
	require.NoError(t, err)

	judge, err := service.Judges.Create(ctx, &models.JudgeCreate{FullName: "Grace Hopper", Email: "grace@jury.test", Username: "grace", Password: "secret1"})
	require.NoError(t, err)

	for team, points := range map[int64]float64{alpha.ID: 10, beta.ID: 15} {
		_, err = service.TeamScores.Create(ctx, &models.TeamScoreCreate{
			TeamID: team, JudgeID: judge.ID, Round: "final",
			Creativity: ptr(points), Feasibility: ptr(points), AIEffectiveness: ptr(points),
			Presentation: ptr(points), SocialImpact: ptr(points),
		})
		require.NoError(t, err)
	}

	_, err = service.Members.Create(ctx, &models.TeamMemberCreate{
		TeamID: alpha.ID, FullName: "Linus", StudentCode: "S001", StudentBatch: "K20",
		ClassCode: "AI01", Email: "linus@students.test", IsLeader: true,
	})
	require.NoError(t, err)

	_, err = service.Assignments.Create(ctx, &models.JudgeAssignmentCreate{JudgeID: judge.ID, TeamID: alpha.ID, Round: "final"})
	require.NoError(t, err)

	_, err = service.Schedules.Create(ctx, &models.ScheduleCreate{
		TeamID:   &alpha.ID,
		Round:    "final",
		DateTime: float64(time.Now().Add(time.Hour).Unix()),
		Location: "Main stage",
	})
	require.NoError(t, err)

	return alpha, beta
}

func TestReply(t *testing.T) {
	b, service := setupBot(t)
	seed(t, service)
	ctx := context.Background()

	t.Run("rankings", func(t *testing.T) {
		text := b.reply(ctx, message("/rankings final", 1))
		assert.Contains(t, text, "🥇 Beta: 75.00")
		assert.Contains(t, text, "🥈 Alpha: 50.00")
		assert.Less(t, strings.Index(text, "Beta"), strings.Index(text, "Alpha"))
	})

	t.Run("round is required without a default", func(t *testing.T) {
		text := b.reply(ctx, message("/rankings", 1))
		assert.True(t, strings.HasPrefix(text, "Error: round is required"), text)
	})

	t.Run("default round", func(t *testing.T) {
		b.settings.DefaultRound = "final"
		defer func() { b.settings.DefaultRound = "" }()
		assert.Contains(t, b.reply(ctx, message("/rankings", 1)), "round final")
	})

	t.Run("empty round", func(t *testing.T) {
		assert.Equal(t, "No member scores for round final yet", b.reply(ctx, message("/members final", 1)))
	})

	t.Run("schedule", func(t *testing.T) {
		text := b.reply(ctx, message("/schedule final", 1))
		assert.Contains(t, text, "Main stage - Alpha")
	})

	t.Run("upcoming", func(t *testing.T) {
		assert.Contains(t, b.reply(ctx, message("/upcoming", 1)), "Next 7 days")
		assert.Contains(t, b.reply(ctx, message("/upcoming 2", 1)), "Main stage")
		assert.Equal(t, "Error: days must be a positive number, e.g. /upcoming 3", b.reply(ctx, message("/upcoming soon", 1)))
	})

	t.Run("admin commands", func(t *testing.T) {
		assert.Equal(t, unknownCommand, b.reply(ctx, message("/team 1", 1)))

		text := b.reply(ctx, message("/team 1", adminID))
		assert.Contains(t, text, "Alpha (#1, login alpha)")
		assert.Contains(t, text, "- Linus, S001 ⭐")
		assert.Contains(t, text, "- Grace Hopper, round final")
		assert.NotContains(t, text, "Average")

		text = b.reply(ctx, message("/team 1 final", adminID))
		assert.Contains(t, text, "Average in round final: 50.00 from 1 judges")

		assert.Equal(t, "Error: Team with id 99 not found", b.reply(ctx, message("/team 99", adminID)))
	})

	t.Run("help", func(t *testing.T) {
		assert.Equal(t, publicHelp, b.reply(ctx, message("/help", 1)))
		assert.Equal(t, adminHelp, b.reply(ctx, message("/help", adminID)))
	})

	t.Run("plain text", func(t *testing.T) {
		assert.Equal(t, unknownCommand, b.reply(ctx, message("hello", 1)))
	})
}

func TestSettingsFrom(t *testing.T) {
	config := &app.Config{}
	_, err := SettingsFrom(config)
	assert.Error(t, err)

	config.Bot.Token = "token"
	config.Bot.Admins = []int64{7}
	settings, err := SettingsFrom(config)
	require.NoError(t, err)
	assert.True(t, settings.IsAdmin(7))
	assert.False(t, settings.IsAdmin(8))
}
