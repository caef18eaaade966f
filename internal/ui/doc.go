// Package ui implements an interactive terminal preview of generated playlists using bubbletea's Elm architecture.
//
// The TUI walks through a curation run:
//  1. [LoadingView] : Fetch the pool (or read the cache) with live progress
//  2. [PlaylistListView] : Browse one generated playlist per taste profile
//  3. [TrackListView] : Inspect the sequence with per-step transition scores and pick reasons
//  4. [ConfirmView] : Confirm publishing the selected playlist
//  5. [PublishView] : Monitor cleanup and creation progress
//  6. [ResultView] : Display the published playlist or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the PlaylistEngine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, p, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
