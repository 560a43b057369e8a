package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/plugin"
	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/rs/xid"
)

var log = logger.New("bot")

type (
	Processor struct {
		allowService *AllowService
		plugins      []plugin.Plugin
		printMsgs    bool
	}

	ProcessorOption func(p *Processor)
)

// WithPrintMessages prints every incoming update to the console.
func WithPrintMessages(enabled bool) ProcessorOption {
	return func(p *Processor) {
		p.printMsgs = enabled
	}
}

func NewProcessor(allowService *AllowService, plugins []plugin.Plugin, opts ...ProcessorOption) *Processor {
	p := &Processor{
		allowService: allowService,
		plugins:      plugins,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) ProcessUpdate(d *ext.Dispatcher, b *gotgbot.Bot, ctx *ext.Context) error {
	if p.printMsgs {
		PrintMessage(ctx)
	}

	if ctx.Message != nil || ctx.EditedMessage != nil {
		return p.onMessage(b, ctx)
	}

	if ctx.CallbackQuery != nil {
		return p.onCallback(b, ctx)
	}

	return nil
}

// match runs trigger against text and collects the named groups.
func match(trigger *regexp.Regexp, text string) ([]string, map[string]string, bool) {
	matches := trigger.FindStringSubmatch(text)
	if len(matches) == 0 {
		return nil, nil, false
	}

	namedMatches := make(map[string]string)
	for i, name := range trigger.SubexpNames() {
		if name != "" {
			namedMatches[name] = matches[i]
		}
	}
	return matches, namedMatches, true
}

// cooldownLeft returns how long a button sent at sent is still locked.
func cooldownLeft(cooldown time.Duration, sent time.Time, now time.Time) time.Duration {
	if cooldown <= 0 {
		return 0
	}
	return max(cooldown-now.Sub(sent), 0)
}

func formatSeconds(d time.Duration) string {
	return strings.ReplaceAll(fmt.Sprintf("%.1f", d.Seconds()), ".", ",")
}

func (p *Processor) onMessage(b *gotgbot.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	isEdited := msg.EditDate != 0

	isAllowed := p.allowService.IsUserAllowed(ctx.EffectiveUser)
	if utils.FromGroup(msg) && !isAllowed {
		isAllowed = p.allowService.IsChatAllowed(ctx.EffectiveChat)
	}

	if !isAllowed {
		log.Debug().Int64("chat_id", ctx.EffectiveChat.Id).Msg("User/Chat is not allowed")
		return nil
	}

	text := utils.AnyText(msg)

	for _, plg := range p.plugins {
		for _, h := range plg.Handlers(&b.User) {
			handler, ok := h.(*plugin.CommandHandler)
			if !ok {
				continue
			}

			if isEdited && !handler.HandleEdits {
				continue
			}

			if !utils.FromGroup(msg) && handler.GroupOnly {
				continue
			}

			matches, namedMatches, matched := match(handler.Trigger, text)
			if !matched {
				continue
			}

			log.Debug().
				Str("plugin", plg.Name()).
				Str("trigger", handler.Trigger.String()).
				Msg("Matched plugin")

			if handler.AdminOnly && !utils.IsAdmin(ctx.EffectiveUser) {
				log.Debug().Msg("User is not an admin.")
				continue
			}

			go p.runCommand(b, ctx, plg.Name(), handler, matches, namedMatches)
		}
	}

	return nil
}

func (p *Processor) runCommand(b *gotgbot.Bot, ctx *ext.Context, pluginName string, handler *plugin.CommandHandler, matches []string, namedMatches map[string]string) {
	replyError := func(err error, guid string) {
		lg := log.Err(err).
			Str("guid", guid).
			Int64("chat_id", ctx.EffectiveChat.Id).
			Str("text", ctx.EffectiveMessage.Text).
			Str("component", pluginName)
		if ctx.EffectiveUser != nil {
			lg = lg.Int64("user_id", ctx.EffectiveUser.Id)
		}
		lg.Send()

		_, _ = ctx.EffectiveMessage.Reply(
			b,
			fmt.Sprintf("❌ Es ist ein Fehler aufgetreten.%s", utils.EmbedGUID(guid)),
			utils.DefaultSendOptions(),
		)
	}

	defer func() {
		if r := recover(); r != nil {
			replyError(fmt.Errorf("panic: %v", r), xid.New().String())
		}
	}()

	err := handler.Run(b, plugin.GobotContext{
		Context:      ctx,
		Matches:      matches,
		NamedMatches: namedMatches,
	})
	if err != nil {
		replyError(err, xid.New().String())
	}
}

func (p *Processor) onCallback(b *gotgbot.Bot, ctx *ext.Context) error {
	callback := ctx.CallbackQuery
	msg := callback.Message

	if callback.Data == "" || msg == nil {
		_, err := callback.Answer(b, nil)
		return err
	}

	isAllowed := p.allowService.IsUserAllowed(&callback.From)
	if utils.FromGroup(msg) && !isAllowed {
		isAllowed = p.allowService.IsChatAllowed(ctx.EffectiveChat)
	}

	if !isAllowed {
		_, err := callback.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
			Text:      "Du darfst diesen Bot nicht nutzen.",
			ShowAlert: true,
		})
		return err
	}

	for _, plg := range p.plugins {
		for _, h := range plg.Handlers(&b.User) {
			handler, ok := h.(*plugin.CallbackHandler)
			if !ok {
				continue
			}

			matches, namedMatches, matched := match(handler.Trigger, callback.Data)
			if !matched {
				continue
			}

			log.Debug().
				Str("plugin", plg.Name()).
				Str("trigger", handler.Trigger.String()).
				Msg("Matched plugin")

			if handler.AdminOnly && !utils.IsAdmin(&callback.From) {
				_, err := callback.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
					Text:      "Du bist kein Bot-Administrator.",
					ShowAlert: true,
				})
				return err
			}

			waitTime := cooldownLeft(handler.Cooldown, utils.TimestampToTime(msg.GetDate()), time.Now())
			if waitTime > 0 {
				_, err := callback.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
					Text:      fmt.Sprintf("🕒 Bitte warte noch %s Sekunden.", formatSeconds(waitTime)),
					ShowAlert: true,
				})
				return err
			}

			if handler.DeleteButton && ctx.EffectiveMessage != nil {
				go func() {
					_, _, err := ctx.EffectiveMessage.EditReplyMarkup(b, nil)
					if err != nil {
						log.Err(err).
							Int64("chat_id", ctx.EffectiveChat.Id).
							Msg("Error removing inline keyboard")
					}
				}()
			}

			go p.runCallback(b, ctx, plg.Name(), handler, matches, namedMatches)
			return nil
		}
	}

	_, err := callback.Answer(b, nil)
	return err
}

func (p *Processor) runCallback(b *gotgbot.Bot, ctx *ext.Context, pluginName string, handler *plugin.CallbackHandler, matches []string, namedMatches map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			log.Err(errors.New("panic")).
				Int64("chat_id", ctx.EffectiveChat.Id).
				Str("callback_data", ctx.CallbackQuery.Data).
				Str("component", pluginName).
				Msgf("%s", r)
		}
	}()

	err := handler.Run(b, plugin.GobotContext{
		Context:      ctx,
		Matches:      matches,
		NamedMatches: namedMatches,
	})
	if err != nil {
		log.Err(err).
			Str("guid", xid.New().String()).
			Int64("chat_id", ctx.EffectiveChat.Id).
			Str("callback_data", ctx.CallbackQuery.Data).
			Str("component", pluginName).
			Send()
	}
}
