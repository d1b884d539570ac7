package tsdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteHeartbeat records a display heartbeat.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Uptime and screen-on state come from the display's heartbeat report.
//
// Parameters:
//   - displayID: Unique identifier for the display (e.g., "lobby-01")
//   - uptimeSeconds: Seconds since the display client started
//   - screenOn: Whether the panel reports its screen as powered
func (c *Client) WriteHeartbeat(displayID string, uptimeSeconds float64, screenOn bool) {
	if !c.IsConnected() {
		return
	}

	on := 0.0
	if screenOn {
		on = 1.0
	}

	point := write.NewPoint(
		"display_heartbeat",
		map[string]string{
			"display_id": displayID,
		},
		map[string]interface{}{
			"uptime_seconds": uptimeSeconds,
			"screen_on":      on,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePlayback records which content a display is currently showing.
//
// Parameters:
//   - displayID: Display identifier
//   - contentType: "schedule" or "slideshow"
//   - contentID: Identifier of the shown content (schedule version, slideshow ID)
func (c *Client) WritePlayback(displayID, contentType, contentID string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"display_playback",
		map[string]string{
			"display_id":   displayID,
			"content_type": contentType,
		},
		map[string]interface{}{
			"content_id": contentID,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
