// Package repsheet embeds the web assets served by the front-end.
package repsheet

import "embed"

// WebFS holds the page templates and static assets.
//
//go:embed web
var WebFS embed.FS
