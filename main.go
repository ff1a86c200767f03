package main

import (
	"StaffDesk/bot"
	"StaffDesk/bot/flows/employee"
	"StaffDesk/bot/flows/leave"
	"StaffDesk/bot/forms"
	"StaffDesk/internal/config"
	repository "StaffDesk/internal/database"
	"StaffDesk/internal/http-server/api"
	"StaffDesk/internal/lib/logger"
	"StaffDesk/internal/lib/sl"
	"StaffDesk/internal/service/core"
	"StaffDesk/internal/service/sheets"
	"StaffDesk/internal/ws"
	"flag"
	"log/slog"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", slog.String("error", err.Error()))
		} else {
			// Mirror error-level logs to the admin chat
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting staffdesk", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}

	var storage forms.Storage
	if db != nil {
		handler.SetRepository(db)
		storage = forms.NewMongoStorage(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		storage = forms.NewMemoryStorage()
		lg.Warn("mongo disabled, form sessions are kept in memory")
	}

	hub := ws.NewHub(lg)
	hub.SetHandler(handler)
	go hub.Run()

	engine := forms.NewEngine(storage, lg)
	handler.SetEngine(engine)
	handler.SetHub(hub)

	exporter, err := sheets.New(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("sheets exporter")
	}
	if exporter != nil {
		lg.With(
			slog.String("spreadsheet", conf.Sheets.SpreadsheetId),
		).Info("sheets exporter initialized")
	}

	var intakeRepo employee.Repository
	var intakeExport employee.Exporter
	if db != nil {
		intakeRepo = db
	}
	if exporter != nil {
		intakeExport = exporter
	}
	if _, err := employee.Register(engine, intakeRepo, intakeExport, hub, lg); err != nil {
		lg.With(sl.Err(err)).Error("register employee intake form")
		return
	}

	var leaveRepo leave.Repository
	var notifier leave.Notifier
	if db != nil {
		leaveRepo = db
	}
	if tgBot != nil {
		notifier = tgBot
	}
	if _, err := leave.Register(engine, leaveRepo, hub, notifier, lg); err != nil {
		lg.With(sl.Err(err)).Error("register leave request form")
		return
	}

	if tgBot != nil {
		formBot := bot.NewFormBot(tgBot, engine, lg)
		formBot.SetEvents(hub)
		formBot.RegisterCommand(employee.Command, employee.FormID)
		formBot.RegisterCommand(leave.Command, leave.FormID)
		formBot.RegisterHandlers()

		go func() {
			if err := tgBot.Start(); err != nil {
				lg.Error("telegram bot error", slog.String("error", err.Error()))
			}
		}()
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
