package observability

import (
	"context"

	"github.com/antoniostano/pomobot/internal/chat"
)

// instrumentedNotifier counts failures per notifier operation.
type instrumentedNotifier struct {
	next    chat.Notifier
	metrics *Metrics
}

// InstrumentNotifier wraps a notifier so failures show up in metrics.
func InstrumentNotifier(next chat.Notifier, metrics *Metrics) chat.Notifier {
	return &instrumentedNotifier{next: next, metrics: metrics}
}

func (n *instrumentedNotifier) SendMessage(ctx context.Context, conv chat.Conversation, text string, kb chat.Keyboard) (chat.Message, error) {
	msg, err := n.next.SendMessage(ctx, conv, text, kb)
	if err != nil {
		n.metrics.NotifierErrors.WithLabelValues("send").Inc()
	}
	return msg, err
}

func (n *instrumentedNotifier) EditMessageText(ctx context.Context, conv chat.Conversation, id chat.MessageID, text string, kb chat.Keyboard) error {
	err := n.next.EditMessageText(ctx, conv, id, text, kb)
	if err != nil {
		n.metrics.NotifierErrors.WithLabelValues("edit").Inc()
	}
	return err
}

func (n *instrumentedNotifier) DeleteMessage(ctx context.Context, conv chat.Conversation, id chat.MessageID) error {
	err := n.next.DeleteMessage(ctx, conv, id)
	if err != nil {
		n.metrics.NotifierErrors.WithLabelValues("delete").Inc()
	}
	return err
}
