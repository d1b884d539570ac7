// Package media manages media asset metadata and slideshows: ordered
// slide sequences with per-slide durations. Deleting an asset removes the
// slides that reference it in the same transaction; the remaining slides
// keep their relative order.
package media
