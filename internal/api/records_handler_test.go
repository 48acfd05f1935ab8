package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeRecord(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	return rec
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	return items
}

func TestRootEndpoint(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	resp := doJSON(t, app, "GET", "/", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "CamperRent API Server", payload["message"])
}

func TestUserLifecycle(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	resp := doJSON(t, app, "POST", "/users", `{"id": "u1", "email": "anna@example.com"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/users", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 1)

	resp = doJSON(t, app, "GET", "/users/u1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "anna@example.com", decodeRecord(t, resp)["email"])

	resp = doJSON(t, app, "GET", "/users/u9", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrMsgUserNotFound, errorBody(t, resp.Body))
}

func TestUserCreateAssignsID(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	resp := doJSON(t, app, "POST", "/users", `{"email": "nils@example.com"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := decodeRecord(t, resp)
	assert.NotEmpty(t, created["id"])
}

func TestUserEmailFilter(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	doJSON(t, app, "POST", "/users", `{"id": "u1", "email": "anna@example.com"}`)
	doJSON(t, app, "POST", "/users", `{"id": "u2", "email": "nils@example.com"}`)

	resp := doJSON(t, app, "GET", "/users?email=anna@example.com", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	items := decodeList(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "u1", items[0]["id"])
}

func TestVehicleReplace(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	doJSON(t, app, "POST", "/vehicles", `{"id": "v1", "model": "Sprinter", "provider_id": "p1"}`)

	resp := doJSON(t, app, "PUT", "/vehicles/v1", `{"id": "v1", "model": "Crafter", "provider_id": "p1"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Crafter", decodeRecord(t, resp)["model"])

	resp = doJSON(t, app, "PUT", "/vehicles/v9", `{"id": "v9"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrMsgVehicleNotFound, errorBody(t, resp.Body))
}

func TestVehicleProviderFilter(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	doJSON(t, app, "POST", "/vehicles", `{"id": "v1", "provider_id": "p1"}`)
	doJSON(t, app, "POST", "/vehicles", `{"id": "v2", "provider_id": "p2"}`)

	resp := doJSON(t, app, "GET", "/vehicles?provider_id=p2", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	items := decodeList(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "v2", items[0]["id"])
}

func TestVehicleDeleteIsIdempotent(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	doJSON(t, app, "POST", "/vehicles", `{"id": "v1"}`)

	resp := doJSON(t, app, "DELETE", "/vehicles/v1", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	// 204 whether or not the record still exists.
	resp = doJSON(t, app, "DELETE", "/vehicles/v1", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/vehicles/v1", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBookingLifecycle(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	resp := doJSON(t, app, "POST", "/bookings", `{"user_id": "u1", "vehicle_id": "v1"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "b1", decodeRecord(t, resp)["id"])

	resp = doJSON(t, app, "POST", "/bookings", `{"user_id": "u2", "vehicle_id": "v1"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "b2", decodeRecord(t, resp)["id"])

	resp = doJSON(t, app, "GET", "/bookings?user_id=u1", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, decodeList(t, resp), 1)

	resp = doJSON(t, app, "GET", "/bookings?vehicle_id=v1", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 2)

	resp = doJSON(t, app, "GET", "/bookings/b1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", "/bookings/b1", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/bookings/b1", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, ErrMsgBookingNotFound, errorBody(t, resp.Body))
}

func TestCreateRejectsInvalidJSON(t *testing.T) {
	app := newTestApp(t, &stubThumbnailer{})

	resp := doJSON(t, app, "POST", "/users", `{"email": `)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrMsgInvalidBody, errorBody(t, resp.Body))
}
