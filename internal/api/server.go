package api

import (
	"context"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/camperrent/camperd/internal/records"
	"github.com/camperrent/camperd/internal/telemetry"
	"github.com/camperrent/camperd/internal/thumbs"
)

// Thumbnailer produces the encoded JPEG for a validated thumbnail
// request. Implemented by thumbs.Service.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, req thumbs.Request) ([]byte, error)
}

// RecordStore is the slice of the records store the handlers need.
type RecordStore interface {
	List(collection string, filters map[string]string) ([]records.Record, error)
	Get(collection, id string) (records.Record, error)
	Create(collection string, rec records.Record) (records.Record, error)
	Replace(collection, id string, rec records.Record) (records.Record, error)
	Delete(collection, id string) error
}

// Server holds the handler dependencies and registers all HTTP routes.
type Server struct {
	thumbs    Thumbnailer
	records   RecordStore
	telemetry *telemetry.TelemetrySvc
}

func NewServer(
	thumbnailer Thumbnailer,
	recordStore RecordStore,
	telemetry *telemetry.TelemetrySvc,
) *Server {
	return &Server{
		thumbs:    thumbnailer,
		records:   recordStore,
		telemetry: telemetry,
	}
}

// Register wires every route onto the fiber app.
func (s *Server) Register(app *fiber.App) {
	app.Get("/", s.handleRoot)
	app.Get("/thumbnail", s.handleThumbnail)

	app.Get("/users", s.listHandler(records.CollectionUsers, "email"))
	app.Post("/users", s.createHandler(records.CollectionUsers))
	app.Get("/users/:id", s.getHandler(records.CollectionUsers, ErrMsgUserNotFound))

	app.Get("/vehicles", s.listHandler(records.CollectionVehicles, "provider_id"))
	app.Post("/vehicles", s.createHandler(records.CollectionVehicles))
	app.Get("/vehicles/:id", s.getHandler(records.CollectionVehicles, ErrMsgVehicleNotFound))
	app.Put("/vehicles/:id", s.replaceHandler(records.CollectionVehicles, ErrMsgVehicleNotFound))
	app.Delete("/vehicles/:id", s.deleteHandler(records.CollectionVehicles))

	app.Get("/bookings", s.listHandler(records.CollectionBookings, "user_id", "vehicle_id"))
	app.Post("/bookings", s.createHandler(records.CollectionBookings))
	app.Get("/bookings/:id", s.getHandler(records.CollectionBookings, ErrMsgBookingNotFound))
	app.Delete("/bookings/:id", s.deleteHandler(records.CollectionBookings))
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "CamperRent API Server",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"thumbnail": "/thumbnail",
			"users":     "/users",
			"vehicles":  "/vehicles",
			"bookings":  "/bookings",
		},
	})
}

// sendJSONError emits the uniform error response shape.
func sendJSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
