package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var SQLs embed.FS
