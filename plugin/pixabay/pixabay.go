package pixabay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Brawl345/pixabot/imagesearch"
	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/model"
	"github.com/Brawl345/pixabot/plugin"
	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

const (
	msgOutdated = "❌ Bitte sende den Befehl erneut ab."
	msgUsage    = "ℹ️ Bitte gib einen Suchbegriff an: <code>/px Katzen</code>"
)

var log = logger.New("pixabay")

type Plugin struct {
	searcher    imagesearch.Searcher
	notifier    imagesearch.Notifier
	sessions    *sessions
	generations atomic.Uint64
	cfg         Config
}

func New(credentialService model.CredentialService, cacheService model.PixabayCacheService, cleanupService model.CleanupService, cfg Config) (*Plugin, error) {
	apiKey := func() string {
		if key := credentialService.GetKey("pixabay_api_key"); key != "" {
			return key
		}
		return os.Getenv("PIXABAY_API_KEY")
	}
	if apiKey() == "" {
		log.Warn().Msg("pixabay_api_key not found")
	}

	client, err := NewClient(apiKey, cfg.Options)
	if err != nil {
		return nil, err
	}

	p := newPlugin(NewCachedSearcher(client, cacheService, cfg.CacheTTL), cfg)

	time.AfterFunc(cfg.CacheTTL, func() {
		cleanup(cleanupService, cfg.CacheTTL)
	})
	time.AfterFunc(cfg.IdleTimeout, p.evictSessions)

	return p, nil
}

func newPlugin(searcher imagesearch.Searcher, cfg Config) *Plugin {
	p := &Plugin{
		searcher: searcher,
		notifier: &notifier{log: log},
		cfg:      cfg,
	}
	p.sessions = newSessions(p.newController)
	return p
}

func cleanup(cleanupService model.CleanupService, ttl time.Duration) {
	log.Debug().Msg("starting cleanup")
	defer time.AfterFunc(ttl, func() {
		cleanup(cleanupService, ttl)
	})

	err := cleanupService.Cleanup(ttl)
	if err != nil {
		log.Err(err).Msg("error cleaning up pixabay cache")
	}
}

func (p *Plugin) evictSessions() {
	defer time.AfterFunc(p.cfg.IdleTimeout, p.evictSessions)

	n := p.sessions.evict(p.cfg.IdleTimeout)
	if n > 0 {
		log.Debug().
			Int("evicted", n).
			Int("remaining", p.sessions.len()).
			Msg("evicted idle sessions")
	}
}

func (p *Plugin) newController(chatID int64) *imagesearch.Controller {
	l := log.With().Int64("chat_id", chatID).Logger()
	return imagesearch.NewController(
		p.searcher,
		p.notifier,
		imagesearch.WithLogger(&l),
		imagesearch.WithGenerationSource(p.nextGeneration),
		imagesearch.WithLoadingHook(p.onLoading),
		imagesearch.WithLoadedHook(p.onLoaded),
	)
}

// nextGeneration is shared by all chats so buttons of an evicted session
// never match its successor.
func (p *Plugin) nextGeneration() uint64 {
	return p.generations.Add(1)
}

func (p *Plugin) Name() string {
	return "pixabay"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "px",
			Description: "<Suchbegriff> - Bilder auf Pixabay suchen",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/px(?:@%s)? (.+)$`, botInfo.Username)),
			HandlerFunc: p.onSearch,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/px(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onUsage,
		},
		&plugin.CallbackHandler{
			Trigger:     regexp.MustCompile(`^px:more:(\d+)$`),
			HandlerFunc: p.onLoadMore,
			Cooldown:    2 * time.Second,
		},
		&plugin.CallbackHandler{
			Trigger:     regexp.MustCompile(`^px:sel:(\d+):(\d+)$`),
			HandlerFunc: p.onSelect,
		},
		&plugin.CallbackHandler{
			Trigger:     regexp.MustCompile(`^px:close$`),
			HandlerFunc: p.onClose,
		},
	}
}

func (p *Plugin) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.cfg.RequestTimeout)
}

func (p *Plugin) onSearch(b *gotgbot.Bot, c plugin.GobotContext) error {
	ctx, cancel := p.requestContext()
	defer cancel()
	return p.search(ctx, b, c.EffectiveChat.Id, c.EffectiveMessage.MessageId, c.Matches[1])
}

func (p *Plugin) onUsage(b *gotgbot.Bot, c plugin.GobotContext) error {
	_, err := c.EffectiveMessage.Reply(b, msgUsage, utils.DefaultSendOptions())
	return err
}

func (p *Plugin) search(ctx context.Context, bot botAPI, chatID int64, replyTo int64, query string) error {
	sess := p.sessions.get(chatID)
	ctx = withTarget(ctx, target{bot: bot, chatID: chatID, replyTo: replyTo})

	err := sess.controller.Submit(ctx, query)
	switch {
	case err == nil, errors.Is(err, imagesearch.ErrDuplicateQuery):
		return nil
	case errors.Is(err, imagesearch.ErrEmptyQuery):
		_, err := bot.SendMessage(chatID, msgUsage, utils.ReplyTo(replyTo))
		return err
	default:
		// Failures were already shown to the user.
		log.Debug().Err(err).Int64("chat_id", chatID).Msg("search failed")
		return nil
	}
}

func callbackExpired(c plugin.GobotContext) bool {
	callbackTime := utils.TimestampToTime(c.CallbackQuery.Message.GetDate())
	return callbackTime.Add(utils.Week).Before(time.Now())
}

func answerOutdated(b *gotgbot.Bot, c plugin.GobotContext) error {
	_, err := c.CallbackQuery.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
		Text:      msgOutdated,
		ShowAlert: true,
	})
	return err
}

func (p *Plugin) onLoadMore(b *gotgbot.Bot, c plugin.GobotContext) error {
	if callbackExpired(c) {
		return answerOutdated(b, c)
	}

	generation, err := strconv.ParseUint(c.Matches[1], 10, 64)
	if err != nil {
		return err
	}

	chatID := c.CallbackQuery.Message.GetChat().Id
	sess, ok := p.current(chatID, generation)
	if !ok {
		return answerOutdated(b, c)
	}

	_, _ = c.CallbackQuery.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
		Text: "Lade weitere Bilder...",
	})

	var markup *gotgbot.InlineKeyboardMarkup
	if c.EffectiveMessage != nil {
		markup = c.EffectiveMessage.ReplyMarkup
	}

	ctx, cancel := p.requestContext()
	defer cancel()
	return p.loadMore(ctx, b, sess, chatID, c.CallbackQuery.Message.GetMessageId(), markup)
}

// current returns the session of the chat if generation is still the one
// the chat is showing.
func (p *Plugin) current(chatID int64, generation uint64) (*session, bool) {
	sess, ok := p.sessions.lookup(chatID)
	if !ok || sess.controller.Generation() != generation {
		return nil, false
	}
	return sess, true
}

func (p *Plugin) loadMore(ctx context.Context, bot botAPI, sess *session, chatID int64, messageID int64, markup *gotgbot.InlineKeyboardMarkup) error {
	if markup != nil {
		_, _, err := bot.EditMessageReplyMarkup(&gotgbot.EditMessageReplyMarkupOpts{
			ChatId:      chatID,
			MessageId:   messageID,
			ReplyMarkup: withoutLoadMore(markup),
		})
		if err != nil {
			log.Err(err).
				Int64("chat_id", chatID).
				Msg("error removing load more button")
		}
	}

	ctx = withTarget(ctx, target{bot: bot, chatID: chatID, replyTo: messageID})
	err := sess.controller.RequestNextPage(ctx)
	if err != nil && !errors.Is(err, imagesearch.ErrNoQuery) {
		log.Debug().Err(err).Int64("chat_id", chatID).Msg("loading next page failed")
	}
	return nil
}

func (p *Plugin) onSelect(b *gotgbot.Bot, c plugin.GobotContext) error {
	if callbackExpired(c) {
		return answerOutdated(b, c)
	}

	generation, err := strconv.ParseUint(c.Matches[1], 10, 64)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Matches[2])
	if err != nil {
		return err
	}

	chatID := c.CallbackQuery.Message.GetChat().Id
	sess, image, ok := p.image(chatID, generation, index)
	if !ok {
		return answerOutdated(b, c)
	}

	_, _ = c.CallbackQuery.Answer(b, nil)
	_, _ = b.SendChatAction(chatID, "upload_photo", nil)

	return p.showImage(b, sess, chatID, c.CallbackQuery.Message.GetMessageId(), index, image)
}

func (p *Plugin) image(chatID int64, generation uint64, index int) (*session, imagesearch.ImageSummary, bool) {
	sess, ok := p.current(chatID, generation)
	if !ok {
		return nil, imagesearch.ImageSummary{}, false
	}

	hits := sess.controller.View().Hits
	if index < 0 || index >= len(hits) {
		return nil, imagesearch.ImageSummary{}, false
	}
	return sess, hits[index], true
}

func (p *Plugin) showImage(bot botAPI, sess *session, chatID int64, replyTo int64, index int, image imagesearch.ImageSummary) error {
	sess.controller.SelectImage(image.FullURL)

	msg, err := bot.SendPhoto(chatID, gotgbot.InputFileByURL(image.FullURL), &gotgbot.SendPhotoOpts{
		Caption:             overlayCaption(index, image),
		ParseMode:           gotgbot.ParseModeHTML,
		ReplyMarkup:         overlayKeyboard(),
		DisableNotification: true,
		ReplyParameters: &gotgbot.ReplyParameters{
			MessageId:                replyTo,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		log.Err(err).
			Int64("chat_id", chatID).
			Str("url", image.FullURL).
			Msg("error sending image, falling back to link")

		opts := utils.ReplyTo(replyTo)
		opts.LinkPreviewOptions = &gotgbot.LinkPreviewOptions{
			Url:              image.FullURL,
			PreferLargeMedia: true,
		}
		opts.ReplyMarkup = overlayKeyboard()
		msg, err = bot.SendMessage(chatID, overlayCaption(index, image), opts)
		if err != nil {
			sess.controller.CloseImage()
			return fmt.Errorf("error sending image: %w", err)
		}
	}

	if previous := sess.swapOverlay(msg.MessageId); previous != 0 && previous != msg.MessageId {
		_, err := bot.DeleteMessage(chatID, previous, nil)
		if err != nil {
			log.Err(err).
				Int64("chat_id", chatID).
				Int64("message_id", previous).
				Msg("error deleting previous image")
		}
	}

	return nil
}

func (p *Plugin) onClose(b *gotgbot.Bot, c plugin.GobotContext) error {
	_, _ = c.CallbackQuery.Answer(b, nil)
	return p.closeImage(b, c.CallbackQuery.Message.GetChat().Id, c.CallbackQuery.Message.GetMessageId())
}

func (p *Plugin) closeImage(bot botAPI, chatID int64, messageID int64) error {
	if sess, ok := p.sessions.lookup(chatID); ok && sess.clearOverlay(messageID) {
		sess.controller.CloseImage()
	}

	_, err := bot.DeleteMessage(chatID, messageID, nil)
	if err != nil {
		return fmt.Errorf("error deleting image: %w", err)
	}
	return nil
}

func (p *Plugin) onLoading(ctx context.Context, _ imagesearch.Request) {
	t, ok := targetFrom(ctx)
	if !ok {
		return
	}
	_, _ = t.bot.SendChatAction(t.chatID, "upload_photo", nil)
}

func (p *Plugin) onLoaded(ctx context.Context, req imagesearch.Request, added []imagesearch.ImageSummary, view imagesearch.View) {
	t, ok := targetFrom(ctx)
	if !ok {
		return
	}

	offset := len(view.Hits) - len(added)
	for _, album := range albums(offset, added) {
		_, err := t.bot.SendMediaGroup(t.chatID, album, &gotgbot.SendMediaGroupOpts{
			DisableNotification: true,
			ReplyParameters: &gotgbot.ReplyParameters{
				MessageId:                t.replyTo,
				AllowSendingWithoutReply: true,
			},
		})
		if err != nil {
			log.Err(err).
				Int64("chat_id", t.chatID).
				Str("query", req.Query).
				Int("page", req.Page).
				Msg("error sending album")
		}
	}

	opts := t.replyOptions()
	opts.ReplyMarkup = galleryKeyboard(req.Generation, offset, len(added), view.ShowLoadMore)
	_, err := t.bot.SendMessage(t.chatID, galleryText(view, offset, len(added)), opts)
	if err != nil {
		log.Err(err).
			Int64("chat_id", t.chatID).
			Str("query", req.Query).
			Int("page", req.Page).
			Msg("error sending gallery keyboard")
	}
}
