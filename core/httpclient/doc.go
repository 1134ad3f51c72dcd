// Package httpclient builds the outbound HTTP clients shared by the target
// workers and the game server client.
//
// # Behaviour
//
// Clients connect within 3 seconds, give up on a whole request after 10 and
// follow at most 3 redirects. Proxy and VerifySSL only take effect when a
// proxy URL is configured.
package httpclient
