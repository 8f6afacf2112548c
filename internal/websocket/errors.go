package websocket

import "errors"

var (
	// ErrHubStopped is returned when publishing to a hub that is not running
	ErrHubStopped = errors.New("websocket hub is not running")

	// ErrQueueFull is returned when the broadcast queue cannot take another message
	ErrQueueFull = errors.New("websocket broadcast queue is full")
)
