//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	binDir  = "bin"
	appName = "payarc-web"
)

var Default = Run

// Run: start the web service
func Run() error {
	mg.Deps(Tidy)
	return sh.RunV("go", "run", "./cmd/web")
}

// Build: compile the web binary into bin/
func Build() error {
	mg.Deps(Tidy)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binDir, appName)
	fmt.Println("Building", out)
	return sh.RunV("go", "build", "-o", out, "./cmd/web")
}

// Tidy: go mod tidy
func Tidy() error {
	return sh.RunV("go", "mod", "tidy")
}

// Test: run the test suite
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint: golangci-lint if installed
func Lint() error {
	if err := sh.RunV("golangci-lint", "run"); err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}
	return nil
}

// Tables: create the MySQL tables
func Tables() error {
	return sh.RunV("go", "run", "./cmd/tools/createtable")
}
