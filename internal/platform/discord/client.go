package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const (
	entryReaction = "🎉"
	// Discord caps reaction pages at 100 users per request.
	reactionPageSize = 100
)

// Client implements the core's Gateway interface on top of a Discord
// session. Entry identifiers are Discord message IDs.
type Client struct {
	session *discordgo.Session
}

func NewClient(token string) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers

	return &Client{session: session}, nil
}

func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.session.Close()
}

// PublishEntry posts the giveaway embed with the opt-in reaction and returns
// the message ID as the giveaway's entry identifier.
func (c *Client) PublishEntry(ctx context.Context, channelID, prize string, winners int, endsAt time.Time) (string, error) {
	embed := &discordgo.MessageEmbed{
		Title: "🎉 GIVEAWAY 🎉",
		Description: fmt.Sprintf(
			"Prize: **%s**\nReact with %s to enter!\nEnds <t:%d:R>",
			prize, entryReaction, endsAt.Unix(),
		),
		Color: 0x2b2d31,
	}

	message, err := c.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send giveaway message: %w", err)
	}

	if err := c.session.MessageReactionAdd(channelID, message.ID, entryReaction, discordgo.WithContext(ctx)); err != nil {
		// Participants can still react themselves; the seed reaction is a
		// convenience only.
		log.Warn().Err(err).Str("entry_id", message.ID).Msg("failed to seed entry reaction")
	}

	return message.ID, nil
}

// FetchParticipants returns the IDs of all non-bot users who reacted with
// the entry emoji on the giveaway message.
func (c *Client) FetchParticipants(ctx context.Context, channelID, entryID string) ([]string, error) {
	var participants []string

	after := ""
	for {
		page, err := c.session.MessageReactions(channelID, entryID, entryReaction, reactionPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list entry reactions: %w", err)
		}

		for _, user := range page {
			if user.Bot {
				continue
			}
			participants = append(participants, user.ID)
		}

		if len(page) < reactionPageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	return participants, nil
}

// Announce posts a plain result message to the giveaway's channel.
func (c *Client) Announce(ctx context.Context, channelID, message string) error {
	if _, err := c.session.ChannelMessageSend(channelID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send announcement: %w", err)
	}
	return nil
}
