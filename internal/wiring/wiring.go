// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/vimasm/internal/adapters/config"
	_ "go.trai.ch/vimasm/internal/adapters/logger"
	_ "go.trai.ch/vimasm/internal/adapters/shell"
	_ "go.trai.ch/vimasm/internal/adapters/telemetry"
	_ "go.trai.ch/vimasm/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/vimasm/internal/app"
)
