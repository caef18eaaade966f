// Package curator builds a daily playlist from a library snapshot and a taste profile.
//
// The pipeline is pure and synchronous:
//
//  1. [Filter] drops non-songs and tracks outside the profile's genre, tempo and
//     play-count rules.
//  2. [Rank] orders the survivors by [PreferenceScore] (favorites, play counts,
//     recency, and a stable per-id jitter).
//  3. [Builder] places tracks one at a time, gated by [CheckConstraints] and chosen by
//     [QualityScore] of the hypothetical sequence blended with [TransitionScore].
//  4. [ComputeMetrics], [QualityScore] and [Name] describe the final sequence.
//
// The current time is always passed in. Nothing in this package performs I/O, logs,
// or returns errors; missing metadata degrades to neutral scores.
package curator
