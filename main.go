package main

import (
	"os"
	"time"

	"github.com/Brawl345/pixabot/bot"
	"github.com/Brawl345/pixabot/logger"
	"github.com/Brawl345/pixabot/model/sql"
	"github.com/Brawl345/pixabot/plugin"
	"github.com/Brawl345/pixabot/plugin/about"
	"github.com/Brawl345/pixabot/plugin/creds"
	"github.com/Brawl345/pixabot/plugin/pixabay"
	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	_ "github.com/joho/godotenv/autoload"
)

var log = logger.New("main")

func main() {
	versionInfo, err := utils.ReadVersionInfo()
	if err == nil {
		log.Info().Msgf("Pixabot-%s, %v", versionInfo.Revision, versionInfo.LastCommit)
	}

	db, err := sql.New()
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	cfg, err := pixabay.ConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid pixabay configuration")
	}

	allowService, err := bot.AllowServiceFromEnv()
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	if allowService.Open() {
		log.Warn().Msg("ALLOWED_IDS is empty, everyone can use the bot")
	}

	credentialService := sql.NewCredentialService(db)

	pixabayPlugin, err := pixabay.New(
		credentialService,
		sql.NewPixabayService(db),
		sql.NewPixabayCleanupService(db),
		cfg,
	)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	plugins := []plugin.Plugin{
		about.New(),
		creds.New(credentialService),
		pixabayPlugin,
	}

	b, err := gotgbot.NewBot(os.Getenv("BOT_TOKEN"), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating bot")
	}

	log.Info().Msgf("Logged in as @%s (%d)", b.Username, b.Id)

	var commands []gotgbot.BotCommand
	for i, plg := range plugins {
		log.Info().Msgf("Registering plugin (%d/%d): %s", i+1, len(plugins), plg.Name())
		commands = append(commands, plg.Commands()...)
	}

	_, err = b.SetMyCommands(commands, nil)
	if err != nil {
		log.Err(err).Msg("error setting commands")
	}

	_, printMsgs := os.LookupEnv("PRINT_MSGS")
	processor := bot.NewProcessor(allowService, plugins, bot.WithPrintMessages(printMsgs))

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Processor:   processor,
		Error:       bot.OnError,
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	err = updater.StartPolling(b, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout:        9,
			AllowedUpdates: []string{"message", "edited_message", "callback_query"},
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 10 * time.Second,
			},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error starting polling")
	}

	updater.Idle()
}
