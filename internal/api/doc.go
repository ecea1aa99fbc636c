// Package api exposes the training plan and cycle services over HTTP. It
// translates requests into service calls and service errors into status
// codes, never leaking storage detail to the client.
package api
