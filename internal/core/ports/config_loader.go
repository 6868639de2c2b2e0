package ports

import "go.trai.ch/vimasm/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the given project directory.
	// A project without a config file yields domain.DefaultConfig().
	Load(projectDir string) (*domain.Config, error)
}
