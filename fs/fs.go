// Package appfs exposes the project's embedded static assets.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
