package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/camperrent/camperd/internal/records"
	"github.com/camperrent/camperd/internal/telemetry/metrics"
)

// listHandler serves a collection listing with the optional equality
// filters the collection supports (e.g. /users?email=...).
func (s *Server) listHandler(collection string, filterFields ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.countRecordRequest(collection)

		filters := make(map[string]string, len(filterFields))
		for _, field := range filterFields {
			if value := c.Query(field); value != "" {
				filters[field] = value
			}
		}

		items, err := s.records.List(collection, filters)
		if err != nil {
			return s.sendRecordError(c, collection, err)
		}
		return c.JSON(items)
	}
}

func (s *Server) getHandler(collection, notFoundMsg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.countRecordRequest(collection)

		rec, err := s.records.Get(collection, c.Params("id"))
		if err != nil {
			if errors.Is(err, records.ErrNotFound) {
				return sendJSONError(c, fiber.StatusNotFound, notFoundMsg)
			}
			return s.sendRecordError(c, collection, err)
		}
		return c.JSON(rec)
	}
}

func (s *Server) createHandler(collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.countRecordRequest(collection)

		var rec records.Record
		if err := json.Unmarshal(c.Body(), &rec); err != nil || rec == nil {
			return sendJSONError(c, fiber.StatusBadRequest, ErrMsgInvalidBody)
		}

		created, err := s.records.Create(collection, rec)
		if err != nil {
			return s.sendRecordError(c, collection, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

func (s *Server) replaceHandler(collection, notFoundMsg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.countRecordRequest(collection)

		var rec records.Record
		if err := json.Unmarshal(c.Body(), &rec); err != nil || rec == nil {
			return sendJSONError(c, fiber.StatusBadRequest, ErrMsgInvalidBody)
		}

		replaced, err := s.records.Replace(collection, c.Params("id"), rec)
		if err != nil {
			if errors.Is(err, records.ErrNotFound) {
				return sendJSONError(c, fiber.StatusNotFound, notFoundMsg)
			}
			return s.sendRecordError(c, collection, err)
		}
		return c.JSON(replaced)
	}
}

// deleteHandler answers 204 whether or not the record existed.
func (s *Server) deleteHandler(collection string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.countRecordRequest(collection)

		if err := s.records.Delete(collection, c.Params("id")); err != nil {
			return s.sendRecordError(c, collection, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (s *Server) countRecordRequest(collection string) {
	s.telemetry.Metrics().Increment(
		metrics.RecordRequestReceived,
		map[string]string{"collection": collection},
	)
}

func (s *Server) sendRecordError(c *fiber.Ctx, collection string, err error) error {
	slog.Error("Record store operation failed", "collection", collection, "error", err)
	return sendJSONError(c, fiber.StatusInternalServerError, ErrMsgInternal)
}
