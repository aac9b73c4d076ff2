// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/prep/internal/adapters/apt"
	_ "go.trai.ch/prep/internal/adapters/config"
	_ "go.trai.ch/prep/internal/adapters/logger"
	_ "go.trai.ch/prep/internal/adapters/probe"
	_ "go.trai.ch/prep/internal/adapters/shell"
	_ "go.trai.ch/prep/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/prep/internal/app"
	_ "go.trai.ch/prep/internal/engine/bootstrap"
)
