//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

const binaryName = "graphpunk"

type Build mg.Namespace

// Downloads the modules and builds the binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	out := filepath.Join("bin", binaryName)
	if _, err := executeCmd("go", withArgs("build", "-o", out, "."), withStream()); err != nil {
		return err
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Runs go vet on every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
