package modkit

import (
	phttp "ladderbot/internal/platform/net/http"
)

// Module is what the app wires: a name, a port set for other modules, and
// optional ops routes
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r phttp.Router)
}
