package telegram

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/antoniostano/pomobot/internal/bot"
	"github.com/antoniostano/pomobot/internal/chat"
	"github.com/antoniostano/pomobot/internal/reliability"
)

// Poller long-polls the Bot API and feeds commands and button presses into
// the bot layer.
type Poller struct {
	client *Client
	bot    *bot.Bot

	// retryBase and retryCap bound the backoff between failed polls.
	retryBase time.Duration
	retryCap  time.Duration
}

func NewPoller(client *Client, b *bot.Bot) *Poller {
	return &Poller{
		client:    client,
		bot:       b,
		retryBase: time.Second,
		retryCap:  30 * time.Second,
	}
}

// Run polls for updates until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	var offset int64
	failures := 0
	for ctx.Err() == nil {
		updates, err := p.client.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := reliability.ExponentialBackoff(failures, p.retryBase, p.retryCap)
			if !reliability.Retryable(err) {
				// A bad token or revoked bot will not fix itself;
				// keep the process alive for the ops surface but
				// slow the loop to the cap.
				delay = p.retryCap
			}
			failures++
			log.Printf("telegram: poll failed (retry in %s): %v", delay, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			continue
		}
		failures = 0
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			p.dispatch(ctx, u)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, u Update) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.Message == nil {
			log.Printf("telegram: callback %q without message", cq.Data)
			return
		}
		notice := p.bot.HandleCallback(ctx, cq.Data, toMessage(*cq.Message), toUser(cq.From))
		if err := p.client.AnswerCallbackQuery(ctx, cq.ID, notice); err != nil {
			log.Printf("telegram: answer callback failed: %v", err)
		}
	case u.Message != nil:
		msg := u.Message
		cmd, ok := parseCommand(msg.Text)
		if !ok || msg.From == nil || msg.From.IsBot {
			return
		}
		var replyTo *chat.Message
		if msg.ReplyTo != nil {
			r := toMessage(*msg.ReplyTo)
			replyTo = &r
		}
		p.bot.HandleCommand(ctx, cmd, toConversation(msg.Chat), toUser(*msg.From), replyTo)
	}
}

// parseCommand extracts the command name from a "/cmd" or "/cmd@botname"
// message. Non-command messages are ignored.
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	if cmd == "" {
		return "", false
	}
	return cmd, true
}
