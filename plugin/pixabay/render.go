package pixabay

import (
	"fmt"
	"strings"

	"github.com/Brawl345/pixabot/imagesearch"
	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

const (
	buttonsPerRow = 5

	loadMorePrefix = "px:more:"
	selectPrefix   = "px:sel:"
	closeData      = "px:close"
)

func loadMoreData(generation uint64) string {
	return fmt.Sprintf("%s%d", loadMorePrefix, generation)
}

func selectData(generation uint64, index int) string {
	return fmt.Sprintf("%s%d:%d", selectPrefix, generation, index)
}

func thumbnailCaption(index int, image imagesearch.ImageSummary) string {
	return utils.Truncate(fmt.Sprintf("%d. %s", index+1, image.Tags), utils.MaxCaptionLength)
}

// albums splits the newly loaded images into media groups Telegram accepts.
func albums(offset int, added []imagesearch.ImageSummary) [][]gotgbot.InputMedia {
	var groups [][]gotgbot.InputMedia
	for start := 0; start < len(added); start += utils.MaxMediaGroup {
		end := min(start+utils.MaxMediaGroup, len(added))
		group := make([]gotgbot.InputMedia, 0, end-start)
		for i, image := range added[start:end] {
			group = append(group, gotgbot.InputMediaPhoto{
				Media:   gotgbot.InputFileByURL(image.ThumbnailURL),
				Caption: thumbnailCaption(offset+start+i, image),
			})
		}
		groups = append(groups, group)
	}
	return groups
}

func galleryText(view imagesearch.View, offset int, count int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"🖼 Bilder <b>%d–%d</b> von <b>%s</b> für <b>%s</b>",
		offset+1,
		offset+count,
		utils.FormatThousand(view.TotalHits),
		utils.Escape(view.Query),
	))
	sb.WriteString("\nTippe auf eine Nummer, um das Bild in voller Größe anzuzeigen.")
	return sb.String()
}

func galleryKeyboard(generation uint64, offset int, count int, showLoadMore bool) gotgbot.InlineKeyboardMarkup {
	var rows [][]gotgbot.InlineKeyboardButton
	var row []gotgbot.InlineKeyboardButton
	for i := offset; i < offset+count; i++ {
		row = append(row, gotgbot.InlineKeyboardButton{
			Text:         fmt.Sprintf("%d", i+1),
			CallbackData: selectData(generation, i),
		})
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if showLoadMore {
		rows = append(rows, []gotgbot.InlineKeyboardButton{
			{
				Text:         "⬇️ Mehr laden",
				CallbackData: loadMoreData(generation),
			},
		})
	}

	return gotgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// withoutLoadMore drops the load more button but keeps the select buttons.
func withoutLoadMore(markup *gotgbot.InlineKeyboardMarkup) gotgbot.InlineKeyboardMarkup {
	if markup == nil {
		return gotgbot.InlineKeyboardMarkup{}
	}
	rows := make([][]gotgbot.InlineKeyboardButton, 0, len(markup.InlineKeyboard))
	for _, row := range markup.InlineKeyboard {
		kept := make([]gotgbot.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			if strings.HasPrefix(button.CallbackData, loadMorePrefix) {
				continue
			}
			kept = append(kept, button)
		}
		if len(kept) > 0 {
			rows = append(rows, kept)
		}
	}
	return gotgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func overlayCaption(index int, image imagesearch.ImageSummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%d.</b> %s\n", index+1, utils.Escape(image.Tags)))
	sb.WriteString(fmt.Sprintf("<a href=\"%s\">🖼 Vollbild</a>", image.FullURL))
	if image.PageURL != "" {
		sb.WriteString(fmt.Sprintf(" • <a href=\"%s\">🌐 Auf Pixabay ansehen</a>", image.PageURL))
	}
	return sb.String()
}

func overlayKeyboard() gotgbot.InlineKeyboardMarkup {
	return gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{
				{
					Text:         "❌ Schließen",
					CallbackData: closeData,
				},
			},
		},
	}
}

func noticeText(notice imagesearch.Notice, guid string) string {
	switch notice.Kind {
	case imagesearch.NoticeDuplicateQuery:
		return fmt.Sprintf(
			"ℹ️ Du hast bereits nach <b>%s</b> gesucht.\nBitte gib einen anderen Suchbegriff ein.",
			utils.Escape(notice.Query),
		)
	case imagesearch.NoticeNothingFound:
		return fmt.Sprintf("❌ Keine Bilder für <b>%s</b> gefunden.", utils.Escape(notice.Query))
	default:
		return fmt.Sprintf("❌ Es ist ein Fehler aufgetreten. Bitte versuche es erneut.%s", utils.EmbedGUID(guid))
	}
}
