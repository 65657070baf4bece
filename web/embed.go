// Package web embeds the HTML templates served by the forum.
package web

import "embed"

// Templates holds layout.html plus one file per page. Each page defines
// "title" and "content" blocks that layout.html renders.
//
//go:embed templates/*.html
var Templates embed.FS
