package bot

import (
	"fmt"
	"strings"

	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// https://twin.sh/articles/35/how-to-add-colors-to-your-console-terminal-output-in-go
var (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	green  = "\033[32m"
	purple = "\033[35m"
	cyan   = "\033[36m"
)

func printUser(user *gotgbot.User) string {
	if user == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s%s", bold, red, user.FirstName))

	if user.LastName != "" {
		sb.WriteString(" ")
		sb.WriteString(user.LastName)
	}

	sb.WriteString(reset)

	if user.Username != "" {
		sb.WriteString(fmt.Sprintf(" %s(@%s)%s", red, user.Username, reset))
	}

	return sb.String()
}

func largestPhoto(photos []gotgbot.PhotoSize) gotgbot.PhotoSize {
	var best gotgbot.PhotoSize
	for _, photo := range photos {
		if photo.Width*photo.Height > best.Width*best.Height {
			best = photo
		}
	}
	return best
}

func onMessage(msg *gotgbot.Message) string {
	var sb strings.Builder

	// Time
	msgTime := utils.TimestampToTime(msg.Date)
	if msg.EditDate != 0 {
		msgTime = utils.TimestampToTime(msg.EditDate)
	}
	sb.WriteString(fmt.Sprintf("%s[%v]", cyan, msgTime.Format("15:04:05")))

	// Chat Title
	if msg.Chat.Title != "" {
		sb.WriteString(fmt.Sprintf(" %s:", msg.Chat.Title))
	}

	sb.WriteString(reset)

	// Sender
	if msg.From != nil {
		sb.WriteString(fmt.Sprintf(" %s", printUser(msg.From)))
	}

	sb.WriteString(fmt.Sprintf("%s >>> %s", cyan, reset))

	if msg.EditDate != 0 {
		sb.WriteString(fmt.Sprintf("%s(editiert) %s", green, reset))
	}

	if msg.ReplyToMessage != nil {
		sb.WriteString(fmt.Sprintf("%sAntwort an %s%s: ", green, reset, printUser(msg.ReplyToMessage.From)))
	}

	if len(msg.Photo) > 0 {
		photo := largestPhoto(msg.Photo)
		sb.WriteString(fmt.Sprintf("%s[Foto: %dx%d px]%s ", purple, photo.Width, photo.Height, reset))
	} else if msg.Sticker != nil {
		sb.WriteString(fmt.Sprintf("%s[Sticker: '%s']%s ", purple, msg.Sticker.Emoji, reset))
	} else if msg.Document != nil {
		sb.WriteString(fmt.Sprintf("%s[Datei: '%s']%s ", purple, msg.Document.FileName, reset))
	}

	sb.WriteString(utils.AnyText(msg))

	return sb.String()
}

func onCallback(callback *gotgbot.CallbackQuery) string {
	var sb strings.Builder

	if callback.Message != nil {
		if callback.Message.GetDate() != 0 {
			sb.WriteString(fmt.Sprintf(
				"%s[%v]%s ",
				cyan,
				utils.TimestampToTime(callback.Message.GetDate()).Format("15:04:05"),
				reset,
			))
		}

		if title := callback.Message.GetChat().Title; title != "" {
			sb.WriteString(fmt.Sprintf("%s%s:%s ", cyan, title, reset))
		}
	}

	sb.WriteString(printUser(&callback.From))
	sb.WriteString(fmt.Sprintf("%s >>> %s%s(CallbackQuery)%s ", cyan, reset, green, reset))

	if callback.Data != "" {
		sb.WriteString(fmt.Sprintf("%s%s%s", purple, callback.Data, reset))
	}

	return sb.String()
}

func PrintMessage(c *ext.Context) {
	var text string
	if c.Message != nil {
		text = onMessage(c.Message)
	} else if c.EditedMessage != nil {
		text = onMessage(c.EditedMessage)
	} else if c.CallbackQuery != nil {
		text = onCallback(c.CallbackQuery)
	} else {
		text = fmt.Sprintf(
			"%s>>> %s%sUnbekannter Nachrichtentyp%s",
			cyan,
			reset,
			red,
			reset,
		)
	}

	println(text)
}

// OnError is used as the dispatcher's error handler.
func OnError(_ *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
	lg := log.Err(err)
	if ctx != nil && ctx.EffectiveChat != nil {
		lg = lg.Int64("chat_id", ctx.EffectiveChat.Id)
	}
	lg.Msg("error processing update")
	return ext.DispatcherActionNoop
}
