package api

import (
	"errors"
	"fmt"
	"log/slog"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/camperrent/camperd/internal/thumbs"
)

// handleThumbnail serves GET /thumbnail?url=<string>&width=<integer>.
// Success responses are raw JPEG bytes; every failure becomes a JSON
// error with the status mapped from the failure kind.
func (s *Server) handleThumbnail(c *fiber.Ctx) error {
	req, err := thumbs.ParseRequest(c.Query("url"), c.Query("width"))
	if err != nil {
		return sendJSONError(c, fiber.StatusBadRequest, validationMessage(err))
	}

	data, err := s.thumbs.Thumbnail(c.UserContext(), req)
	if err != nil {
		return s.sendThumbnailError(c, req, err)
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(data)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, thumbs.ErrMissingURL):
		return ErrMsgMissingURL
	case errors.Is(err, thumbs.ErrInvalidWidth):
		return ErrMsgInvalidWidth
	default:
		return ErrMsgWidthOutOfRange
	}
}

func (s *Server) sendThumbnailError(c *fiber.Ctx, req thumbs.Request, err error) error {
	var statusErr *thumbs.StatusError

	switch {
	case errors.Is(err, thumbs.ErrFetchTimeout):
		slog.Warn("Origin fetch timed out", "url", req.URL)
		return sendJSONError(c, fiber.StatusGatewayTimeout, ErrMsgFetchTimeout)

	case errors.As(err, &statusErr):
		slog.Warn(
			"Origin refused image request",
			"url", req.URL,
			"status", statusErr.Code,
		)
		return sendJSONError(c, fiber.StatusNotFound, ErrMsgFetchFailed)

	default:
		slog.Error(
			"Thumbnail pipeline failed",
			"url", req.URL,
			"width", req.Width,
			"error", err,
		)
		return sendJSONError(
			c,
			fiber.StatusInternalServerError,
			fmt.Sprintf("Image processing failed: %v", err),
		)
	}
}
