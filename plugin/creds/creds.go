package creds

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/model"
	"github.com/Brawl345/pixabot/plugin"
	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/rs/xid"
)

var log = logger.New("creds")

type Plugin struct {
	credentialService model.CredentialService
}

func New(credentialService model.CredentialService) *Plugin {
	return &Plugin{
		credentialService: credentialService,
	}
}

func (*Plugin) Name() string {
	return "creds"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return nil
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/creds(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onGet,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/creds_add(?:@%s)? ([^\s]+) (.+)$`, botInfo.Username)),
			HandlerFunc: p.onAdd,
			AdminOnly:   true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/creds_del(?:@%s)? ([^\s]+)$`, botInfo.Username)),
			HandlerFunc: p.onDelete,
			AdminOnly:   true,
		},
		&plugin.CallbackHandler{
			Trigger:     regexp.MustCompile(`^creds_hide$`),
			HandlerFunc: p.onHide,
			AdminOnly:   true,
		},
	}
}

func credentialsText(creds []model.Credential) string {
	if len(creds) == 0 {
		return "<i>Noch keine Schlüssel eingetragen</i>"
	}

	var sb strings.Builder
	for _, cred := range creds {
		sb.WriteString(fmt.Sprintf("<b>%s</b>:\n<code>%s</code>\n", utils.Escape(cred.Name), utils.Escape(cred.Value)))
	}
	return sb.String()
}

func (p *Plugin) onGet(b *gotgbot.Bot, c plugin.GobotContext) error {
	if !utils.IsPrivate(c.EffectiveMessage) {
		return nil
	}

	opts := utils.DefaultSendOptions()
	opts.ProtectContent = true
	opts.ReplyMarkup = gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{
				{
					Text:         "Verbergen",
					CallbackData: "creds_hide",
				},
			},
		},
	}

	_, err := c.EffectiveMessage.Reply(b, credentialsText(p.credentialService.GetAllCredentials()), opts)
	return err
}

func (p *Plugin) onAdd(b *gotgbot.Bot, c plugin.GobotContext) error {
	if !utils.IsPrivate(c.EffectiveMessage) {
		return nil
	}

	err := p.credentialService.SetKey(c.Matches[1], strings.TrimSpace(c.Matches[2]))
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Str("key", c.Matches[1]).
			Msg("error adding key")
		_, err := c.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Fehler beim Speichern des Schlüssels.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions())
		return err
	}

	_, err = c.EffectiveMessage.Reply(b, "✅ Schlüssel gespeichert", utils.DefaultSendOptions())
	return err
}

func (p *Plugin) onDelete(b *gotgbot.Bot, c plugin.GobotContext) error {
	if !utils.IsPrivate(c.EffectiveMessage) {
		return nil
	}

	err := p.credentialService.DeleteKey(c.Matches[1])
	if errors.Is(err, model.ErrNotFound) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Schlüssel nicht gefunden", utils.DefaultSendOptions())
		return err
	}
	if err != nil {
		return err
	}

	_, err = c.EffectiveMessage.Reply(b, "✅ Schlüssel gelöscht", utils.DefaultSendOptions())
	return err
}

func (p *Plugin) onHide(b *gotgbot.Bot, c plugin.GobotContext) error {
	msg := c.CallbackQuery.Message
	_, err := b.DeleteMessage(msg.GetChat().Id, msg.GetMessageId(), nil)
	if err != nil {
		log.Err(err).Send()
	}
	_, err = c.CallbackQuery.Answer(b, nil)
	return err
}
