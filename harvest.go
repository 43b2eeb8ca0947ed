// Package harvest crawls paginated blog-style sites, discovers media
// linked from individual post pages, and downloads it concurrently to
// local storage while tolerating an unreliable network.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, rod/, prometheus/).
package harvest
