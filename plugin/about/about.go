package about

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/plugin"
	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

var log = logger.New("about")

type Plugin struct {
	text string
}

func New() *Plugin {
	versionInfo, err := utils.ReadVersionInfo()
	if err != nil {
		log.Err(err).Msg("Failed to read build info")
	}
	return &Plugin{
		text: aboutText(versionInfo),
	}
}

func aboutText(versionInfo utils.VersionInfo) string {
	var sb strings.Builder
	sb.WriteString("<b>Pixabot</b> sucht Bilder auf Pixabay.\n")
	sb.WriteString("Sende <code>/px &lt;Suchbegriff&gt;</code>, tippe auf eine Nummer für das Bild in voller Größe ")
	sb.WriteString("und auf \"Mehr laden\" für weitere Ergebnisse.\n\n")

	revision := versionInfo.Revision
	if revision == "" {
		revision = "unknown"
	}
	sb.WriteString(fmt.Sprintf("<code>%s</code>", revision))
	if !versionInfo.LastCommit.IsZero() {
		sb.WriteString(fmt.Sprintf("\n<i>Comitted on %s</i>", versionInfo.LastCommit.Format("02.01.2006, 15:04:05 Uhr")))
	}
	if versionInfo.DirtyBuild {
		sb.WriteString(" (dirty)")
	}
	if versionInfo.GoVersion != "" {
		sb.WriteString(fmt.Sprintf("\n%s (%s/%s)", versionInfo.GoVersion, versionInfo.GoOS, versionInfo.GoArch))
	}
	return sb.String()
}

func (*Plugin) Name() string {
	return "about"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "about",
			Description: "Info über den Bot",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/(?:about|start)(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.onAbout,
		},
	}
}

func (p *Plugin) onAbout(b *gotgbot.Bot, c plugin.GobotContext) error {
	_, err := c.EffectiveMessage.Reply(b, p.text, utils.DefaultSendOptions())
	return err
}
