package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/api"
	"github.com/voxalabs/voxa/internal/config"
	"github.com/voxalabs/voxa/internal/database"
	"github.com/voxalabs/voxa/internal/extract"
	"github.com/voxalabs/voxa/internal/logging"
	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/reminder"
	"github.com/voxalabs/voxa/internal/sink"
	"github.com/voxalabs/voxa/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open reminder store")
	}

	extractors := extract.Chain{extract.NewPatternExtractor()}
	if cfg.AIAPIKey != "" {
		extractors = append(extractors, extract.NewAIExtractor(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel))
		log.Info().Str("model", cfg.AIModel).Msg("AI extraction enabled")
	}

	settings := models.DefaultSettings()
	if ss, ok := store.(storage.SettingsStore); ok {
		settings = ss.Settings()
	}

	queue := sink.NewQueueSink(0, logging.Component(log, "queue"))
	sinks := []sink.Sink{queue}
	if settings.VoiceReminders {
		sinks = append(sinks, sink.NewSpeakerSink(nil))
		log.Info().Msg("Voice announcements enabled")
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := sink.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect Telegram sink")
		} else {
			sinks = append(sinks, tg)
			log.Info().Msg("Telegram sink enabled")
		}
	}

	engine := reminder.NewEngine(store, reminder.Options{
		Extractors:      extractors,
		Sinks:           sinks,
		DefaultLanguage: cfg.DefaultLanguage,
	}, logging.Component(log, "reminder"))

	engine.Start(ctx)

	server := api.New(engine, logging.Component(log, "api"))
	go func() {
		if err := server.Listen(cfg.HTTPAddr); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	go chatLoop(ctx, engine, queue, cfg.DefaultLanguage, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case <-ctx.Done():
	}

	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	engine.Stop()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Store, error) {
	if cfg.DatabaseURI != "" {
		db, err := database.New(ctx, cfg.DatabaseURI, logging.Component(log, "database"))
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Using Postgres reminder store")
		return storage.OpenPostgres(ctx, db, cfg.RetentionDays, logging.Component(log, "storage"))
	}
	log.Info().Str("path", cfg.StoragePath).Msg("Using file reminder store")
	return storage.OpenFile(cfg.StoragePath, logging.Component(log, "storage"))
}

// chatLoop is a minimal interactive front end over the service facade.
// Pending announcements that fired between turns are drained before each
// prompt, mirroring how the voice client surfaces them.
func chatLoop(ctx context.Context, engine *reminder.Engine, queue *sink.QueueSink, language string, quit context.CancelFunc) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("voxa ready. Commands: remind <text> | list | cancel <keywords> | time | ack <id> | quit")

	for {
		for {
			a, ok := queue.Next()
			if !ok {
				break
			}
			fmt.Printf("\n🔔 %s\n", a.Message)
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest := line, ""
		if i := strings.IndexByte(line, ' '); i >= 0 {
			cmd, rest = line[:i], strings.TrimSpace(line[i+1:])
		}

		switch strings.ToLower(cmd) {
		case "quit", "exit":
			quit()
			return
		case "list":
			fmt.Println(engine.Service.ListActive(ctx, language))
		case "time":
			fmt.Println(engine.Service.RemainingTime(ctx, language))
		case "cancel":
			_, msg := engine.Service.CancelFromText(ctx, rest, language)
			fmt.Println(msg)
		case "ack":
			if engine.Service.Acknowledge(ctx, rest) {
				fmt.Println("Done.")
			} else {
				fmt.Println("Nothing to acknowledge with that id.")
			}
		case "remind":
			_, msg := engine.Service.AddFromText(ctx, rest, language)
			fmt.Println(msg)
		default:
			// Treat the whole line as a natural-language request
			_, msg := engine.Service.AddFromText(ctx, line, language)
			fmt.Println(msg)
		}
	}
}
