package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"ytbrief"
	"ytbrief/storage"
	"ytbrief/summarize"
	"ytbrief/youtube"
)

// respondJSON writes the standard success envelope.
func respondJSON(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// respondError writes the standard error envelope.
func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return respondJSON(c, fiber.StatusOK, fiber.Map{"status": "ok"})
}

// handleSummarizeInfo documents the summarize endpoint for clients
// probing it with GET.
func (s *Server) handleSummarizeInfo(c *fiber.Ctx) error {
	return respondJSON(c, fiber.StatusOK, fiber.Map{
		"endpoint": "/summarize",
		"method":   "POST",
		"body": fiber.Map{
			"url":         "YouTube video URL or 11-character video ID (required)",
			"summaryType": "brief | detailed | key-points | super-detailed (default: super-detailed)",
			"language":    "output language tag (default: pt-BR)",
			"maxLength":   "summary character cap (default: 5000)",
		},
	})
}

type summarizeBody struct {
	URL         string `json:"url"`
	VideoURL    string `json:"videoUrl"`
	SummaryType string `json:"summaryType" validate:"omitempty,oneof=brief detailed key-points super-detailed"`
	Language    string `json:"language" validate:"omitempty,max=16"`
	MaxLength   int    `json:"maxLength" validate:"omitempty,min=100,max=50000"`
}

// videoURL accepts either body field name; older clients send
// "videoUrl".
func (b *summarizeBody) videoURL() string {
	if u := strings.TrimSpace(b.URL); u != "" {
		return u
	}
	return strings.TrimSpace(b.VideoURL)
}

func (s *Server) handleSummarize(c *fiber.Ctx) error {
	var body summarizeBody
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
	}

	url := body.videoURL()
	if url == "" {
		return respondError(c, fiber.StatusBadRequest, "URL_EMPTY", "url is required")
	}
	if err := s.validate.Struct(&body); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", err.Error())
	}

	rec, err := s.svc.Summarize(c.Context(), ytbrief.SummarizeRequest{
		VideoURL:    url,
		SummaryType: body.SummaryType,
		Language:    body.Language,
		MaxLength:   body.MaxLength,
	})
	if err != nil {
		return s.summarizeError(c, url, err)
	}

	return respondJSON(c, fiber.StatusOK, fiber.Map{
		"summary":          rec,
		"transcriptLength": rec.TranscriptLength,
		"requestId":        c.Locals("request_id"),
		"timestamp":        time.Now().UTC(),
	})
}

// summarizeError maps pipeline failures onto stable error codes.
func (s *Server) summarizeError(c *fiber.Ctx, url string, err error) error {
	switch {
	case errors.Is(err, ytbrief.ErrInvalidURL):
		if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
			return respondError(c, fiber.StatusBadRequest, "VIDEO_ID_EXTRACTION_FAILED",
				"could not extract a video ID from the url")
		}
		return respondError(c, fiber.StatusBadRequest, "INVALID_URL", "url is not a YouTube url")
	case errors.Is(err, youtube.ErrNoCaptions):
		return respondError(c, fiber.StatusNotFound, "TRANSCRIPT_NOT_FOUND",
			"no transcript could be acquired for this video")
	default:
		s.log.WithError(err).Error("summarize failed")
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "summarization failed")
	}
}

func (s *Server) handleListSummaries(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	recs, err := s.svc.Store().ListSummaries(c.Context(), storage.SearchFilter{
		Query:         c.Query("q"),
		VideoID:       c.Query("video_id"),
		FavoritesOnly: c.QueryBool("favorites"),
		Limit:         limit,
	})
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "listing summaries failed")
	}

	return respondJSON(c, fiber.StatusOK, fiber.Map{
		"summaries": recs,
		"count":     len(recs),
	})
}

func (s *Server) handleGetSummary(c *fiber.Ctx) error {
	rec, err := s.svc.Store().GetSummary(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "SUMMARY_NOT_FOUND", "summary does not exist")
		}
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "loading summary failed")
	}
	return respondJSON(c, fiber.StatusOK, rec)
}

func (s *Server) handleDeleteSummary(c *fiber.Ctx) error {
	err := s.svc.Store().DeleteSummary(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "SUMMARY_NOT_FOUND", "summary does not exist")
		}
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "deleting summary failed")
	}
	return respondJSON(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (s *Server) handleClearSummaries(c *fiber.Ctx) error {
	if err := s.svc.Store().ClearSummaries(c.Context()); err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "clearing summaries failed")
	}
	return respondJSON(c, fiber.StatusOK, fiber.Map{"cleared": true})
}

type favoriteBody struct {
	Favorite bool `json:"favorite"`
}

func (s *Server) handleSetFavorite(c *fiber.Ctx) error {
	var body favoriteBody
	if err := c.BodyParser(&body); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
	}

	rec, err := s.svc.Store().SetFavorite(c.Context(), c.Params("id"), body.Favorite)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "SUMMARY_NOT_FOUND", "summary does not exist")
		}
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "updating summary failed")
	}
	return respondJSON(c, fiber.StatusOK, rec)
}

func (s *Server) handleUsage(c *fiber.Ctx) error {
	usage, err := s.svc.Store().GetUsage(c.Context())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "loading usage failed")
	}
	return respondJSON(c, fiber.StatusOK, fiber.Map{
		summarize.BackendGemini: usage.Gemini,
		summarize.BackendOpenAI: usage.OpenAI,
		summarize.BackendLocal:  usage.Local,
		"total":                 usage.Total(),
		"last_updated":          usage.LastUpdated,
	})
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	data, err := s.svc.Store().Export(c.Context())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "export failed")
	}
	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", `attachment; filename="ytbrief-export.json"`)
	return c.Status(fiber.StatusOK).Send(data)
}

func (s *Server) handleImport(c *fiber.Ctx) error {
	if err := s.svc.Store().Import(c.Context(), c.Body()); err != nil {
		if errors.Is(err, storage.ErrCorrupted) {
			return respondError(c, fiber.StatusBadRequest, "INVALID_IMPORT", "import document is not valid")
		}
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "import failed")
	}
	return respondJSON(c, fiber.StatusOK, fiber.Map{"imported": true})
}
