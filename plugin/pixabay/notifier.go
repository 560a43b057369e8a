package pixabay

import (
	"context"
	"errors"

	"github.com/Brawl345/pixabot/imagesearch"
	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/utils"
	"github.com/Brawl345/pixabot/utils/httpUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/rs/xid"
)

type (
	// botAPI is the part of *gotgbot.Bot the plugin renders with.
	botAPI interface {
		SendMessage(chatId int64, text string, opts *gotgbot.SendMessageOpts) (*gotgbot.Message, error)
		SendPhoto(chatId int64, photo gotgbot.InputFileOrString, opts *gotgbot.SendPhotoOpts) (*gotgbot.Message, error)
		SendMediaGroup(chatId int64, media []gotgbot.InputMedia, opts *gotgbot.SendMediaGroupOpts) ([]gotgbot.Message, error)
		SendChatAction(chatId int64, action string, opts *gotgbot.SendChatActionOpts) (bool, error)
		DeleteMessage(chatId int64, messageId int64, opts *gotgbot.DeleteMessageOpts) (bool, error)
		EditMessageReplyMarkup(opts *gotgbot.EditMessageReplyMarkupOpts) (*gotgbot.Message, bool, error)
	}

	// target is where the results of one user interaction are rendered.
	target struct {
		bot     botAPI
		chatID  int64
		replyTo int64
	}

	targetKey struct{}

	notifier struct {
		log *logger.Logger
	}
)

func withTarget(ctx context.Context, t target) context.Context {
	return context.WithValue(ctx, targetKey{}, t)
}

func targetFrom(ctx context.Context) (target, bool) {
	t, ok := ctx.Value(targetKey{}).(target)
	return t, ok
}

func (t target) replyOptions() *gotgbot.SendMessageOpts {
	return utils.ReplyTo(t.replyTo)
}

func (n *notifier) Notify(ctx context.Context, notice imagesearch.Notice) {
	t, ok := targetFrom(ctx)
	if !ok {
		n.log.Warn().
			Str("kind", notice.Kind.String()).
			Msg("notice without target")
		return
	}

	var guid string
	if notice.Kind == imagesearch.NoticeFailure {
		guid = xid.New().String()
		lg := n.log.Err(notice.Err).
			Str("guid", guid).
			Int64("chat_id", t.chatID).
			Str("query", notice.Query).
			Int("page", notice.Page)

		var httpError *httpUtils.HttpError
		if errors.As(notice.Err, &httpError) && httpError.IsRateLimited() {
			lg = lg.Bool("rate_limited", true)
		}
		lg.Msg("error searching pixabay")
	}

	_, err := t.bot.SendMessage(t.chatID, noticeText(notice, guid), t.replyOptions())
	if err != nil {
		n.log.Err(err).
			Int64("chat_id", t.chatID).
			Str("kind", notice.Kind.String()).
			Msg("error sending notice")
	}
}
