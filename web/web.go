// Package web embeds the HTML templates and static assets of the site.
package web

import "embed"

//go:embed templates static
var FS embed.FS
