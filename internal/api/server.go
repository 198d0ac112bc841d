// Package api exposes the reminder engine over HTTP for the companion app
// and the continuous-voice client.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/voxalabs/voxa/internal/models"
	"github.com/voxalabs/voxa/internal/reminder"
)

type Server struct {
	app    *fiber.App
	engine *reminder.Engine
	log    zerolog.Logger
}

func New(engine *reminder.Engine, log zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{app: app, engine: engine, log: log}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/reminders", s.list)
	s.app.Post("/reminders", s.create)
	s.app.Post("/reminders/text", s.createFromText)
	s.app.Delete("/reminders/:id", s.cancel)
	s.app.Post("/reminders/:id/ack", s.acknowledge)
	s.app.Get("/reminders/status", s.status)
	s.app.Get("/settings", s.getSettings)
	s.app.Put("/settings", s.updateSettings)
}

func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("HTTP API listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) list(c *fiber.Ctx) error {
	active, err := s.engine.Store.GetActive(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load reminders",
		})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"reminders": active,
		"count":     len(active),
	})
}

type createRequest struct {
	Task        string `json:"task"`
	TriggerTime string `json:"trigger_time"`
	Type        string `json:"type"`
	Language    string `json:"language"`
	Urgency     string `json:"urgency"`
}

func (s *Server) create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Task == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "task is required",
		})
	}

	at, err := parseTriggerTime(req.TriggerTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "trigger_time must be ISO-8601 or YYYY-MM-DD HH:MM:SS",
		})
	}

	r := &models.Reminder{
		Task:            req.Task,
		TriggerTime:     at,
		OriginalRequest: req.Task,
		Recurrence:      models.Recurrence(req.Type),
		Context: models.Context{
			Language: req.Language,
			Urgency:  req.Urgency,
		},
	}
	if err := s.engine.Service.Add(c.Context(), r); err != nil {
		s.log.Error().Err(err).Msg("Failed to create reminder via API")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create reminder",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"reminder": r,
	})
}

type textRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *Server) createFromText(c *fiber.Ctx) error {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	ok, message := s.engine.Service.AddFromText(c.Context(), req.Text, req.Language)
	status := fiber.StatusCreated
	if !ok {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(fiber.Map{
		"success": ok,
		"message": message,
	})
}

func (s *Server) cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.engine.Service.Cancel(c.Context(), id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no active reminder with that id",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) acknowledge(c *fiber.Ctx) error {
	id := c.Params("id")
	if !s.engine.Service.Acknowledge(c.Context(), id) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "reminder is not awaiting acknowledgment",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) status(c *fiber.Ctx) error {
	summary, err := s.engine.Service.Summary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load summary",
		})
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"summary":      summary,
		"armed_timers": s.engine.Scheduler.Armed(),
	})
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":  true,
		"settings": s.engine.Settings(),
	})
}

func (s *Server) updateSettings(c *fiber.Ctx) error {
	var settings models.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if settings.RetentionDays <= 0 {
		settings.RetentionDays = s.engine.Settings().RetentionDays
	}

	ok, err := s.engine.UpdateSettings(settings)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to update settings")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save settings",
		})
	}
	if !ok {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "this store does not carry settings",
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"settings": settings,
	})
}

func parseTriggerTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
}
