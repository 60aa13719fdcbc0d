package platform

import "errors"

// Channel errors.
var (
	// ErrChannelNotFound indicates the requested platform channel does not exist.
	ErrChannelNotFound = errors.New("platform channel not found")

	// ErrMethodNotFound indicates the method is not implemented on the receiving side.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrInvalidArguments indicates the arguments passed to the method were invalid.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrPlatformUnavailable indicates no native bridge is installed.
	ErrPlatformUnavailable = errors.New("platform feature unavailable")
)

// Map engine errors.
var (
	// ErrForeignHandle is returned when a marker handle was not created by
	// the engine it is passed to.
	ErrForeignHandle = errors.New("platform: marker handle belongs to another map")

	// ErrMarkerGone is returned when operating on a marker that was removed,
	// either by RemoveObject or by the native side.
	ErrMarkerGone = errors.New("platform: marker no longer exists")

	// ErrNoDispatcher is reported when a native callback arrives before a
	// UI-thread dispatcher is registered with [RegisterDispatch].
	ErrNoDispatcher = errors.New("platform: no UI dispatcher registered")
)

// ChannelError is an error returned by the native map engine. Bridges
// return it from InvokeMethod; the Code is engine-defined.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// NewChannelError creates a new ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}
