// Package display manages the registry of physical signage screens:
// identity, mounting orientation, slideshow assignment, heartbeat-derived
// online state and the commands the server can push to a single screen.
package display
