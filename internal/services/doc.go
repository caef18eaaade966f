// Package services defines the [Library] interface for music servers and implements it for OpenSubsonic.
//
// # Library Interface
//
// The playlist engine only needs five operations from a server: ping, fetch random songs (optionally by genre),
// list playlists, create a playlist from ordered track IDs, and delete a playlist.
//
// # OpenSubsonic Implementation
//
// [SubsonicService] talks to any Subsonic-compatible server through a resty client with retries.
//
// Every request carries the Subsonic auth query parameters:
//   - u: username
//   - t: md5(password + salt), s: the random salt (token auth, API 1.13.0+)
//   - p: hex-encoded password when legacy_auth is set
//   - v, c, f=json: API version, client name, response format
//
// Responses are wrapped in a "subsonic-response" envelope whose status is "ok" or "failed".
//
// # Pool Fetching
//
// [FetchPool] builds a deduplicated candidate pool from repeated random-song batches plus per-genre batches,
// waiting on a [rate.Limiter] between requests and stopping after a bounded number of batches that add nothing new.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAuthFailed] : wrong credentials or unsupported auth mechanism (codes 40-44)
//   - [shared.ErrPlaylistNotFound] : requested data not found (code 70)
//   - [shared.ErrServiceUnavailable] : server unreachable or returned 5xx
//   - [shared.ErrAPIRequest] : any other failed request
//
// # API Mappings
//
// Songs map to [models.Track]: the legacy single genre is merged with the OpenSubsonic genres array,
// starred becomes Favorite and played is kept as the raw LastPlayed timestamp.
package services
