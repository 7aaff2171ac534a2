// Package layouts bundles the standard boards so games can start without a layouts
// directory on disk.
package layouts

import "embed"

//go:embed *.lay
var FS embed.FS
