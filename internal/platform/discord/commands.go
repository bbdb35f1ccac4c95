package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/service"
)

var botCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "gstart",
		Description: "Start a giveaway",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "duration",
				Description: "How long the giveaway runs (e.g. 10m, 2h, 1d)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "winners",
				Description: "Number of winners",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "prize",
				Description: "The prize",
				Required:    true,
			},
		},
	}, {
		Name:        "gend",
		Description: "End a giveaway early",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message-id",
				Description: "The giveaway message ID",
				Required:    true,
			},
		},
	}, {
		Name:        "greroll",
		Description: "Reroll a giveaway",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message-id",
				Description: "The giveaway message ID",
				Required:    true,
			},
		},
	}, {
		Name:        "glist",
		Description: "List active giveaways",
	}, {
		Name:        "gweight",
		Description: "Increase user's win chance",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The user to weight",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Extra entries for the user",
				Required:    true,
			},
		},
	}, {
		Name:        "gboost",
		Description: fmt.Sprintf("Manual win boost (max %d)", models.MaxBoost),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "The user to boost",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Boost amount",
				Required:    true,
			},
		},
	},
}

type commandHandler = func(s *discordgo.Session, i *discordgo.InteractionCreate)

// Bot wires the giveaway commands to a Discord session.
type Bot struct {
	client             *Client
	svc                service.GiveawayService
	guildID            string
	registeredCommands []*discordgo.ApplicationCommand
	handlers           map[string]commandHandler
}

func NewBot(client *Client, svc service.GiveawayService, guildID string) *Bot {
	bot := &Bot{
		client:  client,
		svc:     svc,
		guildID: guildID,
	}

	bot.handlers = map[string]commandHandler{
		"gstart":  bot.start,
		"gend":    bot.end,
		"greroll": bot.reroll,
		"glist":   bot.list,
		"gweight": bot.weight,
		"gboost":  bot.boost,
	}

	return bot
}

// Start opens the session and registers the slash commands.
func (b *Bot) Start() error {
	b.client.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.Username).Msg("bot is up")
	})

	b.client.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if handler, ok := b.handlers[i.ApplicationCommandData().Name]; ok {
			handler(s, i)
		}
	})

	if err := b.client.Open(); err != nil {
		return err
	}

	for _, command := range botCommands {
		registered, err := b.client.session.ApplicationCommandCreate(b.client.session.State.User.ID, b.guildID, command)
		if err != nil {
			return fmt.Errorf("create %v command: %w", command.Name, err)
		}
		b.registeredCommands = append(b.registeredCommands, registered)
		log.Debug().Str("command", command.Name).Msg("registered command")
	}

	return nil
}

// Stop removes the registered commands and closes the session.
func (b *Bot) Stop() {
	for _, command := range b.registeredCommands {
		if err := b.client.session.ApplicationCommandDelete(b.client.session.State.User.ID, b.guildID, command.ID); err != nil {
			log.Warn().Err(err).Str("command", command.Name).Msg("failed to delete command")
		}
	}

	if err := b.client.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close discord session")
	}
}

func (b *Bot) start(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)

	_, err := b.svc.StartGiveaway(
		context.Background(),
		i.ChannelID,
		i.GuildID,
		opts["duration"].StringValue(),
		int(opts["winners"].IntValue()),
		opts["prize"].StringValue(),
	)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDuration) {
			respond(s, i, "Invalid time format.")
			return
		}
		log.Error().Err(err).Msg("failed to start giveaway")
		respond(s, i, "Failed to start the giveaway.")
		return
	}

	respond(s, i, "Giveaway started!")
}

func (b *Bot) end(s *discordgo.Session, i *discordgo.InteractionCreate) {
	entryID := optionMap(i)["message-id"].StringValue()

	if err := b.svc.EndGiveaway(context.Background(), entryID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(s, i, "Giveaway not found.")
			return
		}
		log.Error().Err(err).Str("entry_id", entryID).Msg("failed to end giveaway")
		respond(s, i, "Failed to end the giveaway.")
		return
	}

	respond(s, i, "Giveaway ended.")
}

func (b *Bot) reroll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	entryID := optionMap(i)["message-id"].StringValue()

	if err := b.svc.RerollGiveaway(context.Background(), entryID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(s, i, "Giveaway not found.")
			return
		}
		log.Error().Err(err).Str("entry_id", entryID).Msg("failed to reroll giveaway")
		respond(s, i, "Failed to reroll the giveaway.")
		return
	}

	respond(s, i, "Giveaway rerolled.")
}

func (b *Bot) list(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ids, err := b.svc.ListActiveGiveaways(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to list giveaways")
		respond(s, i, "Failed to list giveaways.")
		return
	}

	if len(ids) == 0 {
		respond(s, i, "No active giveaways.")
		return
	}

	respond(s, i, "Active Giveaways:\n"+strings.Join(ids, "\n"))
}

func (b *Bot) weight(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)

	if err := b.svc.SetUserWeight(context.Background(), user.ID, int(opts["amount"].IntValue())); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to set weight")
		respond(s, i, "Failed to update weight.")
		return
	}

	respond(s, i, "Weight updated.")
}

func (b *Bot) boost(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	user := opts["user"].UserValue(s)

	if err := b.svc.SetUserBoost(context.Background(), user.ID, int(opts["amount"].IntValue())); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to set boost")
		respond(s, i, "Failed to update boost.")
		return
	}

	respond(s, i, "Boost updated.")
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, option := range options {
		m[option.Name] = option
	}
	return m
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to respond to interaction")
	}
}
