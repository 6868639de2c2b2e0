package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vimasm/internal/core/domain"
)

func TestToolchainFor(t *testing.T) {
	tests := []struct {
		path     string
		expected domain.Toolchain
	}{
		{"/src/main.c", domain.ToolchainC},
		{"/src/main.cpp", domain.ToolchainCPP},
		{"/src/main.hpp", domain.ToolchainCPP},
		{"/src/main.CC", domain.ToolchainCPP},
		{"/src/lib.rs", domain.ToolchainRust},
		{"/src/main.S", domain.ToolchainC},
		{"/src/Makefile", domain.ToolchainC},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ToolchainFor(tt.path))
		})
	}
}

func TestToolchain_String(t *testing.T) {
	assert.Equal(t, "C", domain.ToolchainC.String())
	assert.Equal(t, "CPP", domain.ToolchainCPP.String())
	assert.Equal(t, "RS", domain.ToolchainRust.String())
}
