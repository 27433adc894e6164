// Package server exposes the summarization service over HTTP.
package server

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"ytbrief"
	"ytbrief/storage"
)

// Summarizer is the service surface the handlers call.
type Summarizer interface {
	Summarize(ctx context.Context, req ytbrief.SummarizeRequest) (*storage.SummaryRecord, error)
	Store() storage.Store
}

// Server is the HTTP front end.
type Server struct {
	app      *fiber.App
	svc      Summarizer
	log      *logrus.Logger
	validate *validator.Validate
}

// New creates the server and registers all routes.
func New(svc Summarizer, log *logrus.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "ytbrief",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	s := &Server{
		app:      app,
		svc:      svc,
		log:      log,
		validate: validator.New(),
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(requestLogger(log))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)

	s.app.Get("/summarize", noCache, s.handleSummarizeInfo)
	s.app.Post("/summarize", noCache, s.handleSummarize)

	s.app.Get("/summaries", s.handleListSummaries)
	s.app.Delete("/summaries", s.handleClearSummaries)
	s.app.Get("/summaries/:id", s.handleGetSummary)
	s.app.Delete("/summaries/:id", s.handleDeleteSummary)
	s.app.Patch("/summaries/:id/favorite", s.handleSetFavorite)

	s.app.Get("/usage", s.handleUsage)
	s.app.Get("/export", s.handleExport)
	s.app.Post("/import", s.handleImport)
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	s.log.WithField("addr", addr).Info("http server listening")
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler turns unhandled errors into the standard error envelope.
func errorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}
		if code >= 500 {
			log.WithError(err).Error("request failed")
		}
		return respondError(c, code, "INTERNAL_ERROR", err.Error())
	}
}
