package utils

import "time"

const (
	Day  = 24 * time.Hour
	Week = 7 * Day

	MaxCaptionLength = 1024
	MaxMediaGroup    = 10 // Max number of photos in one album

	UserAgent = "Pixabot/1.0 (Telegram Bot; +https://github.com/Brawl345/pixabot)"
)
