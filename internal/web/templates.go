package web

import "embed"

//go:embed templates/index.html
var templatesFS embed.FS
