package slack

import (
	"context"
	"log/slog"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// EventHandler は受信したイベントを処理する
type EventHandler interface {
	HandleMessage(ctx context.Context, msg *domain.Message)
	HandleReaction(ctx context.Context, ev *domain.ReactionEvent)
}

type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// Listener はSocket Modeのイベントをドメインのイベントに変換して渡す
type Listener struct {
	events  <-chan socketmode.Event
	acker   acker
	handler EventHandler
	logger  *slog.Logger
}

// NewListener は新しいListenerを作成する
func NewListener(client *socketmode.Client, handler EventHandler, logger *slog.Logger) *Listener {
	return &Listener{
		events:  client.Events,
		acker:   client,
		handler: handler,
		logger:  logger,
	}
}

// Run はctxが終了するかイベントのチャネルが閉じるまでイベントを処理する
func (l *Listener) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-l.events:
			if !ok {
				return nil
			}
			l.handle(ctx, evt)
		}
	}
}

func (l *Listener) handle(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		l.logger.Info("Slackに接続中...")
	case socketmode.EventTypeConnected:
		l.logger.Info("Slackに接続しました")
	case socketmode.EventTypeConnectionError:
		l.logger.Warn("Slackへの接続に失敗しました", "data", evt.Data)
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			l.logger.Debug("不明なイベントを無視しました", "type", evt.Type)
			return
		}
		if evt.Request != nil {
			l.acker.Ack(*evt.Request)
		}
		l.dispatch(ctx, apiEvent)
	}
}

func (l *Listener) dispatch(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}

	switch ev := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if msg := convertMessageEvent(ev); msg != nil {
			l.handler.HandleMessage(ctx, msg)
		}
	case *slackevents.ReactionAddedEvent:
		l.handler.HandleReaction(ctx, &domain.ReactionEvent{
			UserID:   ev.User,
			Reaction: normalizeReactionName(ev.Reaction),
			Item: domain.MessageRef{
				ChannelID: ev.Item.Channel,
				Timestamp: ev.Item.Timestamp,
			},
		})
	}
}

// convertMessageEvent は投稿されたメッセージをドメインモデルに変換する
// 編集や削除の通知は対象外
func convertMessageEvent(ev *slackevents.MessageEvent) *domain.Message {
	switch ev.SubType {
	case "", "bot_message", "thread_broadcast", "file_share":
	default:
		return nil
	}

	return &domain.Message{
		ID:        ev.TimeStamp,
		Text:      decodeText(ev.Text),
		UserID:    ev.User,
		ChannelID: ev.Channel,
		IsBot:     ev.SubType == "bot_message" || ev.BotID != "",
	}
}
