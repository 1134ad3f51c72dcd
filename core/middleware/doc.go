// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: assigns a RayID to every request and echoes it in X-Ray-ID so
//     the ingestion of a payload can be traced through the logs.
//
// RayID must be registered first so that every later log line carries it.
package middleware
