package server

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/poiesic/passage/core"
	"github.com/poiesic/passage/ingestion"
	"github.com/poiesic/passage/search"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleIngest accepts a multipart batch under the "files" field plus
// optional version/tags/source form values, and runs the whole batch through
// the pipeline in one call.
func (s *Server) handleIngest(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form required")
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "at least one file is required")
	}

	items := make([]ingestion.FileItem, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unreadable upload: "+header.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unreadable upload: "+header.Filename)
		}
		items = append(items, ingestion.FileItem{Name: header.Filename, Data: data})
	}

	meta := core.DocumentMeta{
		Version: c.FormValue("version"),
		Tags:    c.FormValue("tags"),
		Source:  c.FormValue("source"),
	}

	result, err := s.pipeline.IngestFiles(c.Context(), items, meta)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) handleIngestURLs(c *fiber.Ctx) error {
	var req urlsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON request")
	}
	if err := checkStruct(&req); err != nil {
		return err
	}

	meta := core.DocumentMeta{Version: req.Version, Tags: req.Tags, Source: req.Source}
	result, err := s.pipeline.IngestURLs(c.Context(), req.URLs, meta)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON request")
	}
	if err := checkStruct(&req); err != nil {
		return err
	}

	items, err := s.retriever.Retrieve(c.Context(), req.Question, req.TopK, req.Filters.toFilter())
	if errors.Is(err, search.ErrEmptyQuestion) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	if items == nil {
		items = []core.RetrievedItem{}
	}
	return c.JSON(queryResponse{Items: items})
}
