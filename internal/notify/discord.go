package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts the message to a channel over the REST API only.
type DiscordNotifier struct {
	channelID string
	session   messageSender
}

func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord notifier: bot_token is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord notifier: channel_id is required")
	}

	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	return &DiscordNotifier{
		channelID: channelID,
		session:   session,
	}, nil
}

func (n *DiscordNotifier) Notify(ctx context.Context, message string) error {
	if _, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	return nil
}
