package slack

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/StephanAkkerman/Issue-Bot/internal/domain"
	"github.com/slack-go/slack"
)

// MessageRepository はSlack APIを使用してメッセージを操作するリポジトリ
type MessageRepository struct {
	client *slack.Client
	// userClient は他のユーザーのメッセージを削除するためのユーザートークンのクライアント
	userClient *slack.Client
}

// NewMessageRepository は新しいMessageRepositoryを作成する
// userClientがnilの場合はすべての削除をボットトークンで行う
func NewMessageRepository(client, userClient *slack.Client) *MessageRepository {
	return &MessageRepository{
		client:     client,
		userClient: userClient,
	}
}

// Post はメッセージを投稿する
func (r *MessageRepository) Post(ctx context.Context, channelID string, msg domain.OutgoingMessage) (domain.MessageRef, error) {
	options := []slack.MsgOption{slack.MsgOptionText(msg.Text, false)}
	if msg.Card != nil {
		options = append(options, slack.MsgOptionAttachments(convertToAttachment(msg.Card)))
	}

	respChannel, respTS, err := r.client.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("メッセージ投稿エラー: %w", err)
	}

	return domain.MessageRef{ChannelID: respChannel, Timestamp: respTS}, nil
}

// Delete はメッセージを削除する
// ボットトークンで削除できないメッセージはユーザートークンで削除し直す
func (r *MessageRepository) Delete(ctx context.Context, ref domain.MessageRef) error {
	_, _, err := r.client.DeleteMessageContext(ctx, ref.ChannelID, ref.Timestamp)
	if isCantDelete(err) && r.userClient != nil {
		_, _, err = r.userClient.DeleteMessageContext(ctx, ref.ChannelID, ref.Timestamp)
	}
	if err != nil {
		return fmt.Errorf("メッセージ削除エラー (%s): %w", ref.Timestamp, err)
	}
	return nil
}

func isCantDelete(err error) bool {
	var slackErr slack.SlackErrorResponse
	return errors.As(err, &slackErr) && slackErr.Err == "cant_delete_message"
}

// AddReaction はメッセージにリアクションを付ける
func (r *MessageRepository) AddReaction(ctx context.Context, ref domain.MessageRef, name string) error {
	if err := r.client.AddReactionContext(ctx, name, slack.NewRefToMessage(ref.ChannelID, ref.Timestamp)); err != nil {
		return fmt.Errorf("リアクション追加エラー (:%s:): %w", name, err)
	}
	return nil
}

// FindReactions はメッセージの現在のリアクションを取得する
func (r *MessageRepository) FindReactions(ctx context.Context, ref domain.MessageRef) ([]domain.Reaction, error) {
	history, err := r.client.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: ref.ChannelID,
		Oldest:    ref.Timestamp,
		Latest:    ref.Timestamp,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("メッセージ取得エラー: %w", err)
	}

	for i := range history.Messages {
		if history.Messages[i].Timestamp == ref.Timestamp {
			return convertToDomainMessage(&history.Messages[i], ref.ChannelID).Reactions, nil
		}
	}

	return nil, fmt.Errorf("メッセージ '%s' が見つかりません", ref.Timestamp)
}

// convertToDomainMessage はSlackのMessageをドメインモデルに変換する
func convertToDomainMessage(msg *slack.Message, channelID string) *domain.Message {
	reactions := make([]domain.Reaction, 0, len(msg.Reactions))
	for _, reaction := range msg.Reactions {
		reactions = append(reactions, domain.Reaction{
			Name:  normalizeReactionName(reaction.Name),
			Count: reaction.Count,
		})
	}

	return &domain.Message{
		ID:        msg.Timestamp,
		Text:      msg.Text,
		UserID:    msg.User,
		ChannelID: channelID,
		Reactions: reactions,
		IsBot:     msg.SubType == "bot_message" || msg.BotID != "",
	}
}

// convertToAttachment はプレビューカードをSlackのアタッチメントに変換する
func convertToAttachment(card *domain.PreviewCard) slack.Attachment {
	return slack.Attachment{
		Color:    card.Color,
		Title:    card.Title,
		Text:     card.Description + "\n\n" + card.Indicator,
		ThumbURL: card.ThumbnailURL,
		Footer:   card.Footer,
		Fields: []slack.AttachmentField{
			{
				Title: card.LabelsHeader,
				Value: strings.Join(card.LabelLines, "\n"),
				Short: false,
			},
		},
	}
}

// normalizeReactionName はスキントーン修飾子を取り除く（例: "+1::skin-tone-2" → "+1"）
func normalizeReactionName(name string) string {
	base, _, _ := strings.Cut(name, "::")
	return base
}
