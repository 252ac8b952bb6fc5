package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/antoniostano/pomobot/internal/bot"
	"github.com/antoniostano/pomobot/internal/chat"
	"github.com/antoniostano/pomobot/internal/config"
	"github.com/antoniostano/pomobot/internal/history"
	"github.com/antoniostano/pomobot/internal/httpapi"
	"github.com/antoniostano/pomobot/internal/observability"
	"github.com/antoniostano/pomobot/internal/session"
	"github.com/antoniostano/pomobot/internal/telegram"
)

type BuildResult struct {
	Config    config.Config
	API       *httpapi.Server
	Store     *session.Store
	Bot       *bot.Bot
	Scheduler *session.Scheduler
	Notifier  chat.Notifier
	Poller    *telegram.Poller
	Metrics   *observability.Metrics

	// Cleanup should be called on shutdown to release external resources (DB etc).
	Cleanup func() error
}

// Build wires every component from configuration. The poller is nil when
// BOT_TOKEN is unset; callers still get a working store, scheduler, and API
// backed by an in-memory notifier.
func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	archive, err := history.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("history store init failed: %w", err)
	}

	store := session.NewStore(cfg.BreakDuration)
	hub := httpapi.NewHub()
	store.SetTransitionHook(transitionHook(store, archive, hub, metrics))

	var (
		notifier chat.Notifier
		client   *telegram.Client
		botName  string
	)
	if cfg.BotToken != "" {
		client = telegram.NewClient(cfg.BotToken, cfg.TelegramAPIBaseURL)
		me, err := client.GetMe(ctx)
		if err != nil {
			_ = archive.Close()
			return nil, fmt.Errorf("telegram getMe failed: %w", err)
		}
		botName = me.Username
		notifier = client
		log.Printf("notifier: telegram (@%s)", botName)
	} else {
		notifier = chat.NewRecorder()
		log.Printf("notifier: recorder (BOT_TOKEN not set, chat calls are recorded in memory)")
	}
	notifier = observability.InstrumentNotifier(notifier, metrics)

	b := bot.New(store, notifier, bot.Config{
		WorkDuration:    cfg.WorkDuration,
		BreakDuration:   cfg.BreakDuration,
		AlignGroupStart: cfg.AlignGroupStart,
		BotName:         botName,
	})

	var poller *telegram.Poller
	if client != nil {
		poller = telegram.NewPoller(client, b)
	}

	api := httpapi.New(cfg, store, archive, hub)

	return &BuildResult{
		Config:    cfg,
		API:       api,
		Store:     store,
		Bot:       b,
		Scheduler: session.NewScheduler(store),
		Notifier:  notifier,
		Poller:    poller,
		Metrics:   metrics,
		Cleanup:   archive.Close,
	}, nil
}

// transitionHook fans session events out to metrics, the websocket hub, and
// the finished-session archive.
func transitionHook(store *session.Store, archive history.Store, hub *httpapi.Hub, metrics *observability.Metrics) func(session.Event) {
	return func(ev session.Event) {
		metrics.SessionEvents.WithLabelValues(ev.Trigger, string(ev.Info.State)).Inc()
		metrics.ActiveSessions.Set(float64(store.Count()))
		hub.Publish(ev)

		if !ev.Terminal {
			return
		}
		record := history.Record{
			ConversationID: int64(ev.Key.Conversation),
			MessageID:      int64(ev.Key.Message),
			Creator:        ev.Info.Creator.DisplayName(),
			Participants:   len(ev.Info.Participants),
			FinalState:     string(ev.Info.State),
			Completed:      ev.Trigger == session.TriggerDeadline && ev.From == session.StateBreakRunning,
			CreatedAt:      ev.Info.CreatedAt,
		}
		// Archive off the scheduler goroutine; a slow database must not
		// delay the next deadline.
		go func() {
			saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := archive.SaveSession(saveCtx, record); err != nil {
				log.Printf("history save failed: %v", err)
			}
		}()
	}
}
