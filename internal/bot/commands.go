package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
)

const (
	publicHelp = `Available commands:
/rankings [round] - Team leaderboard
/members [round] - Member leaderboard
/schedule [round] - Presentation schedule of a round
/upcoming [days] - Sessions starting soon
/help - Show this message`

	adminHelp = publicHelp + `

Admin commands:
/team <id> [round] - Team card with members, submissions, judges and average score

Examples:
/rankings final
/upcoming 3
/team 12 final`

	unknownCommand = "Use commands to talk to me. Send /help for the list."

	timeLayout = "Mon 02 Jan 15:04 MST"
)

type command struct {
	args  []string
	admin bool
}

type commandHandler func(ctx context.Context, cmd command) (string, error)

func (b *Bot) routePublicCommands(name string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"start":    b.handleStart,
		"help":     b.handleHelp,
		"rankings": b.handleRankings,
		"members":  b.handleMemberRankings,
		"schedule": b.handleSchedule,
		"upcoming": b.handleUpcoming,
	}
	handler, found := commands[name]
	return handler, found
}

func (b *Bot) routeAdminCommands(name string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"team": b.handleTeam,
	}
	handler, found := commands[name]
	return handler, found
}

// reply computes the answer to msg without sending it.
func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message) string {
	if !msg.IsCommand() {
		return unknownCommand
	}

	name := msg.Command()
	cmd := command{
		args:  strings.Fields(msg.CommandArguments()),
		admin: msg.From != nil && b.settings.IsAdmin(msg.From.ID),
	}

	handler, found := b.routePublicCommands(name)
	if !found && cmd.admin {
		handler, found = b.routeAdminCommands(name)
	}
	if !found {
		return unknownCommand
	}

	text, err := handler(ctx, cmd)
	if err != nil {
		if apperr.KindOf(err) == apperr.Internal {
			logger.Error.Printf("Command /%s failed: %v", name, err)
		}
		return "Error: " + apperr.DetailOf(err)
	}
	return text
}

func (b *Bot) handleStart(_ context.Context, cmd command) (string, error) {
	text := "Hi! I keep track of the hackathon leaderboard and schedule.\n\n"
	if cmd.admin {
		text += "You are an organizer. Use /help for the list of commands."
	} else {
		text += "Try /rankings or /upcoming."
	}
	return text, nil
}

func (b *Bot) handleHelp(_ context.Context, cmd command) (string, error) {
	if cmd.admin {
		return adminHelp, nil
	}
	return publicHelp, nil
}

func (b *Bot) round(cmd command) (string, error) {
	if len(cmd.args) > 0 {
		return cmd.args[0], nil
	}
	if b.settings.DefaultRound != "" {
		return b.settings.DefaultRound, nil
	}
	return "", apperr.Validationf("round is required, e.g. /rankings final")
}

func (b *Bot) handleRankings(ctx context.Context, cmd command) (string, error) {
	round, err := b.round(cmd)
	if err != nil {
		return "", err
	}

	rankings, err := b.service.TeamScores.Rankings(ctx, round, 0)
	if err != nil {
		return "", err
	}
	if len(rankings) == 0 {
		return fmt.Sprintf("No team scores for round %s yet", round), nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "🏆 Team rankings, round %s:\n\n", round)
	for _, r := range rankings {
		fmt.Fprintf(&msg, "%s %s: %.2f\n", medal(r.Rank), b.teamName(ctx, r.TeamID), r.AverageScore)
	}
	return msg.String(), nil
}

func (b *Bot) handleMemberRankings(ctx context.Context, cmd command) (string, error) {
	round, err := b.round(cmd)
	if err != nil {
		return "", err
	}

	rankings, err := b.service.MemberScores.Rankings(ctx, round, 0)
	if err != nil {
		return "", err
	}
	if len(rankings) == 0 {
		return fmt.Sprintf("No member scores for round %s yet", round), nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "🌟 Member rankings, round %s:\n\n", round)
	for _, r := range rankings {
		name := fmt.Sprintf("member #%d", r.TeamMemberID)
		if m, err := b.service.Members.Get(ctx, r.TeamMemberID); err == nil {
			name = fmt.Sprintf("%s (%s)", m.FullName, b.teamName(ctx, m.TeamID))
		}
		fmt.Fprintf(&msg, "%s %s: %.2f\n", medal(r.Rank), name, r.AverageScore)
	}
	return msg.String(), nil
}

func (b *Bot) handleSchedule(ctx context.Context, cmd command) (string, error) {
	round, err := b.round(cmd)
	if err != nil {
		return "", err
	}

	schedules, err := b.service.Schedules.ListByRound(ctx, round)
	if err != nil {
		return "", err
	}
	if len(schedules) == 0 {
		return fmt.Sprintf("Nothing scheduled for round %s", round), nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "📅 Schedule, round %s:\n\n", round)
	b.writeSchedules(ctx, &msg, schedules)
	return msg.String(), nil
}

func (b *Bot) handleUpcoming(ctx context.Context, cmd command) (string, error) {
	days := b.settings.UpcomingDays
	if len(cmd.args) > 0 {
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil || n <= 0 {
			return "", apperr.Validationf("days must be a positive number, e.g. /upcoming 3")
		}
		days = n
	}

	schedules, err := b.service.Schedules.Upcoming(ctx, days)
	if err != nil {
		return "", err
	}
	if len(schedules) == 0 {
		return fmt.Sprintf("Nothing scheduled in the next %d days", days), nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "⏰ Next %d days:\n\n", days)
	b.writeSchedules(ctx, &msg, schedules)
	return msg.String(), nil
}

func (b *Bot) writeSchedules(ctx context.Context, msg *strings.Builder, schedules []models.Schedule) {
	for _, s := range schedules {
		at := time.Unix(int64(s.DateTime), 0).UTC().Format(timeLayout)
		fmt.Fprintf(msg, "%s [%s] %s", at, s.Round, s.Location)
		if s.TeamID != nil {
			fmt.Fprintf(msg, " - %s", b.teamName(ctx, *s.TeamID))
		}
		if s.Note != "" {
			fmt.Fprintf(msg, " (%s)", s.Note)
		}
		msg.WriteString("\n")
	}
}

func (b *Bot) handleTeam(ctx context.Context, cmd command) (string, error) {
	if len(cmd.args) < 1 {
		return "", apperr.Validationf("usage: /team <id> [round]")
	}
	id, err := strconv.ParseInt(cmd.args[0], 10, 64)
	if err != nil {
		return "", apperr.Validationf("invalid team id: %s", cmd.args[0])
	}

	team, err := b.service.Teams.Get(ctx, id)
	if err != nil {
		return "", err
	}
	members, err := b.service.Members.ListByTeam(ctx, id)
	if err != nil {
		return "", err
	}
	submissions, err := b.service.Submissions.ListByTeam(ctx, id)
	if err != nil {
		return "", err
	}
	assignments, err := b.service.Assignments.ListByTeam(ctx, id, "")
	if err != nil {
		return "", err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "👥 %s (#%d, login %s)\n", team.TeamName, team.ID, team.Username)
	if team.Slogan != "" {
		fmt.Fprintf(&msg, "%q\n", team.Slogan)
	}

	fmt.Fprintf(&msg, "\nMembers (%d):\n", len(members))
	for _, m := range members {
		leader := ""
		if m.IsLeader {
			leader = " ⭐"
		}
		fmt.Fprintf(&msg, "- %s, %s%s\n", m.FullName, m.StudentCode, leader)
	}

	fmt.Fprintf(&msg, "\nSubmissions (%d):\n", len(submissions))
	for _, s := range submissions {
		fmt.Fprintf(&msg, "- %s [%s]\n", s.ProjectTitle, s.Status)
	}

	fmt.Fprintf(&msg, "\nJudges (%d):\n", len(assignments))
	for _, a := range assignments {
		name := fmt.Sprintf("judge #%d", a.JudgeID)
		if j, err := b.service.Judges.Get(ctx, a.JudgeID); err == nil {
			name = j.FullName
		}
		fmt.Fprintf(&msg, "- %s, round %s\n", name, a.Round)
	}

	round := b.settings.DefaultRound
	if len(cmd.args) > 1 {
		round = cmd.args[1]
	}
	if round != "" {
		avg, err := b.service.TeamScores.Average(ctx, id, round)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&msg, "\nAverage in round %s: %.2f from %d judges\n", round, avg.TotalScore, avg.JudgeCount)
	}
	return msg.String(), nil
}

func (b *Bot) teamName(ctx context.Context, id int64) string {
	team, err := b.service.Teams.Get(ctx, id)
	if err != nil {
		return fmt.Sprintf("team #%d", id)
	}
	return team.TeamName
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return strconv.Itoa(rank) + "."
	}
}
