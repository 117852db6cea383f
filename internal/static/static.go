package static

import _ "embed"

// IndexHTML contains the embedded landing page.
//
//go:embed index.html
var IndexHTML string
