package bot

import (
	"context"
	"log"

	"github.com/antoniostano/pomobot/internal/chat"
	"github.com/antoniostano/pomobot/internal/session"
)

// HandleCommand routes a slash command. replyTo is the message the command
// replied to, when any; /start in reply to a session anchor starts that
// session early, otherwise it shows the menu.
func (b *Bot) HandleCommand(ctx context.Context, cmd string, conv chat.Conversation, from chat.User, replyTo *chat.Message) {
	switch cmd {
	case "25":
		if err := b.CreateWorkSession(ctx, conv, from); err != nil {
			log.Printf("bot: /25 failed: %v", err)
		}
	case "5":
		if err := b.CreateBreakSession(ctx, conv, from); err != nil {
			log.Printf("bot: /5 failed: %v", err)
		}
	case "join":
		notice := b.Join(ctx, conv, from)
		if notice != "Yay!" {
			if _, err := b.notifier.SendMessage(ctx, conv, notice, nil); err != nil {
				log.Printf("bot: join reply failed: %v", err)
			}
		}
	case "leave":
		notice := b.Leave(ctx, conv, from)
		if _, err := b.notifier.SendMessage(ctx, conv, notice, nil); err != nil {
			log.Printf("bot: leave reply failed: %v", err)
		}
	case "start":
		if replyTo != nil {
			notice := b.StartNow(ctx, session.Key{Conversation: conv.ID, Message: replyTo.ID}, from)
			// Success already announces itself through the replaced
			// anchor; only rejections need a reply.
			if notice != "Let's go!" {
				if _, err := b.notifier.SendMessage(ctx, conv, notice, nil); err != nil {
					log.Printf("bot: start reply failed: %v", err)
				}
			}
			return
		}
		b.Menu(ctx, conv)
	case "help":
		b.Help(ctx, conv)
	default:
		log.Printf("bot: unhandled command %q", cmd)
	}
}

// HandleCallback routes an inline button press on msg and returns the short
// notice shown to the pressing user.
func (b *Bot) HandleCallback(ctx context.Context, data string, msg chat.Message, from chat.User) string {
	key := session.Key{Conversation: msg.Chat.ID, Message: msg.ID}
	switch data {
	case chat.CallbackNewWork:
		b.deleteMessage(ctx, msg)
		if err := b.CreateWorkSession(ctx, msg.Chat, from); err != nil {
			log.Printf("bot: callback %q failed: %v", data, err)
		}
		return ""
	case chat.CallbackNewBreak:
		b.deleteMessage(ctx, msg)
		if err := b.CreateBreakSession(ctx, msg.Chat, from); err != nil {
			log.Printf("bot: callback %q failed: %v", data, err)
		}
		return ""
	case chat.CallbackJoin:
		return b.JoinByKey(ctx, key, from)
	case chat.CallbackStartNow:
		return b.StartNow(ctx, key, from)
	case chat.CallbackHelp:
		b.deleteMessage(ctx, msg)
		b.Help(ctx, msg.Chat)
		return ""
	case chat.CallbackCancel:
		b.deleteMessage(ctx, msg)
		return ""
	default:
		log.Printf("bot: unhandled callback %q", data)
		return ""
	}
}

func (b *Bot) deleteMessage(ctx context.Context, msg chat.Message) {
	if err := b.notifier.DeleteMessage(ctx, msg.Chat, msg.ID); err != nil {
		log.Printf("bot: delete message %d failed: %v", msg.ID, err)
	}
}
