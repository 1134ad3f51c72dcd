// Package server holds the configuration of the local HTTP server.
//
// The capture collaborator delivers payloads to this server; the server
// itself is assembled in cmd/start.go from the features registered with the
// loader.
package server
