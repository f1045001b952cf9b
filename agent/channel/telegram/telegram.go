package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	channelx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/channel"
)

type Config struct {
	Token       string `envconfig:"TOKEN" split_words:"true" required:"true"`
	APIEndpoint string `envconfig:"API_ENDPOINT" split_words:"true" default:"https://api.telegram.org/bot%s/%s"`
	PollTimeout int    `envconfig:"POLL_TIMEOUT" split_words:"true" default:"30"`
	Debug       bool   `envconfig:"DEBUG" split_words:"true"`
}

type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Adapter long-polls Telegram and answers every message as a reply to it.
type Adapter struct {
	bot         botAPI
	dispatcher  *channelx.Dispatcher
	pollTimeout int
}

var _ channelx.Sender = (*Adapter)(nil)

// New authenticates the bot token against Telegram.
func New(cfg Config, dispatcher *channelx.Dispatcher) (*Adapter, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("telegram token is required")
	}
	endpoint := cfg.APIEndpoint
	if strings.TrimSpace(endpoint) == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect bot: %w", err)
	}
	bot.Debug = cfg.Debug
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authorized")

	return newAdapter(bot, dispatcher, cfg.PollTimeout)
}

func newAdapter(bot botAPI, dispatcher *channelx.Dispatcher, pollTimeout int) (*Adapter, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Adapter{bot: bot, dispatcher: dispatcher, pollTimeout: pollTimeout}, nil
}

// Run polls until ctx ends, then waits for in-flight replies.
func (a *Adapter) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = a.pollTimeout
	updates := a.bot.GetUpdatesChan(u)

	defer a.dispatcher.Wait()
	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := EventFromUpdate(update)
			if !ok {
				continue
			}
			a.dispatcher.Dispatch(ctx, ev, a)
		}
	}
}

func (a *Adapter) Send(_ context.Context, ev channelx.Event, text string) error {
	msg := tgbotapi.NewMessage(ev.ChatID, text)
	msg.ReplyToMessageID = ev.MessageID
	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send chat=%d: %w", ev.ChatID, err)
	}
	return nil
}

// EventFromUpdate keeps text messages and commands; everything else is skipped.
func EventFromUpdate(update tgbotapi.Update) (channelx.Event, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return channelx.Event{}, false
	}

	userID := msg.Chat.ID
	if msg.From != nil {
		userID = msg.From.ID
	}
	ev := channelx.Event{
		UserID:    strconv.FormatInt(userID, 10),
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}
	if msg.IsCommand() {
		ev.Command = strings.ToLower(msg.Command())
	}
	if strings.TrimSpace(ev.Text) == "" {
		return channelx.Event{}, false
	}
	return ev, true
}
