//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the tests that need no window system.
func (Test) Unit() error {
	pkgs := []string{
		"./engine",
		"./engine/core/...",
		"./engine/containers/...",
		"./engine/platform",
		"./engine/renderer",
		"./testbed/...",
	}
	args := append([]string{"test", "-race", "-count=1"}, pkgs...)
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
