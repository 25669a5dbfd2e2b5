// Package server is the HTTP and WebSocket ingress, built on echo.
//
// HTTP routes cover presenter login, poll read-back, the participant list, health, version
// and metrics. GET /ws upgrades to a WebSocket: each connection gets a generated id, is
// registered with the broadcast hub, and its inbound {"event","data"} frames are dispatched
// to the poll engine. When the read loop ends the connection leaves the roster exactly once.
package server
