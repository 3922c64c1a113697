// Package module holds the module contract plus a registry and typed port lookup for bootstrap
package module

import (
	phttp "querycanon/internal/platform/net/http"
)

// Module is the contract modkit modules satisfy.
// It is a sibling of modkit.Module so port types can live next to it without import cycles
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
