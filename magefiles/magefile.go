//go:build mage

// Package main provides build targets for ojt-tracker using Mage.
//
// Usage:
//
//	mage build      Compile server, healthcheck and ojtctl to bin/
//	mage test       Run all tests, including container-backed database tests
//	mage testShort  Run tests without containers
//	mage lint       Run golangci-lint
//	mage swagger    Regenerate docs/api from the handler annotations
//	mage clean      Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binaryDir = "bin"

var binaries = map[string]string{
	"ojt-server":      "./cmd/server",
	"ojt-healthcheck": "./cmd/healthcheck",
	"ojtctl":          "./cmd/ojtctl",
}

// Build compiles the binaries to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	for name, pkg := range binaries {
		if err := sh.RunV("go", "build", "-o", filepath.Join(binaryDir, name), pkg); err != nil {
			return err
		}
	}
	return nil
}

// Test runs every test. Database container tests skip when docker is unavailable.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestShort runs the tests that need neither docker nor network.
func TestShort() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Swagger regenerates the OpenAPI document served at /swagger.
func Swagger() error {
	return sh.RunV("swag", "init", "-g", "cmd/server/main.go", "-o", "docs/api", "--outputTypes", "go", "--packageName", "api")
}

// Release lints, tests and builds.
func Release() {
	mg.SerialDeps(Lint, Test, Build)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}
