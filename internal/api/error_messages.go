package api

// User-facing error messages. Error responses are always JSON objects
// with a single "error" field; they never mix with image bytes.
const (
	ErrMsgMissingURL      = "Missing 'url' parameter"
	ErrMsgInvalidWidth    = "Invalid width parameter"
	ErrMsgWidthOutOfRange = "Width must be between 50 and 2000"
	ErrMsgFetchFailed     = "Failed to fetch image"
	ErrMsgFetchTimeout    = "Request timeout while fetching image"

	ErrMsgUserNotFound    = "User not found"
	ErrMsgVehicleNotFound = "Vehicle not found"
	ErrMsgBookingNotFound = "Booking not found"
	ErrMsgInvalidBody     = "Invalid JSON body"
	ErrMsgInternal        = "An unexpected error occurred"
)
