package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/glizzus/traytimer/internal/schedule"
)

// DiscordSession is the part of *discordgo.Session the sink uses.
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSink posts deliveries to a Discord channel.
type DiscordSink struct {
	session   DiscordSession
	channelID string
}

func NewDiscordSink(session DiscordSession, channelID string) *DiscordSink {
	return &DiscordSink{session: session, channelID: channelID}
}

func (s *DiscordSink) Deliver(ctx context.Context, d schedule.Delivery) error {
	_, err := s.session.ChannelMessageSend(s.channelID, DiscordContent(d), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post notification %d to discord: %w", d.ID, err)
	}
	return nil
}

// DiscordContent renders a delivery as a Discord message.
func DiscordContent(d schedule.Delivery) string {
	var b strings.Builder
	b.WriteString("**")
	b.WriteString(d.Title)
	b.WriteString("**")
	if body := strings.TrimSpace(d.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return b.String()
}

var (
	_ Sink           = (*DiscordSink)(nil)
	_ DiscordSession = (*discordgo.Session)(nil)
)

// ReadyLog logs the bot identity once the session is ready.
func ReadyLog(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Discord session is ready", "username", r.User.Username, "userID", r.User.ID)
}

// NewDiscordSession creates and opens a bot session.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.AddHandler(ReadyLog)
	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("failed to open discord session: %w", err)
	}
	return s, nil
}
