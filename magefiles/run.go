//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed in the terminal. Set GRAPHPUNK_CONFIG to use a TOML file.
func (Run) Testbed() error {
	args := []string{"run", "."}
	if path := os.Getenv("GRAPHPUNK_CONFIG"); path != "" {
		args = append(args, "-config", path)
	}
	fmt.Println("Run testbed...")
	_, err := executeCmd("go", withArgs(args...), withStream())
	return err
}

// Runs the testbed headless for a fixed number of frames.
func (Run) Headless() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd("bin/"+binaryName, withArgs("-platform", "headless", "-frames", "120"), withStream())
	return err
}

type Test mg.Namespace

// Runs every test.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs every test with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}
