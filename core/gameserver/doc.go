// Package gameserver talks to the origin game server on behalf of the
// combat log enricher.
//
// Every call is a POST of a small JSON document to <server_url><path> with the
// session headers of the running client. The session is not known at startup;
// it is pushed in later through SetSession (see the PUT /session route), and
// calls made before that fail with a ConfigurationGap error.
//
// # Endpoints
//
//   - Journal: /journals/get, returns the raw "journal" object of a battle.
//   - Profiles: /user_profile/profiles, player name and alliance id per user id.
//   - Alliances: /alliance/get_alliances_public_info, name and tag per alliance.
package gameserver
