// Package settings manages the deployment-wide settings document: display
// theme, slide transition timing, the nightly standby window and the
// default slideshow. One document per deployment, replaced whole on write.
package settings
