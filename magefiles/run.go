//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with the platform default backend.
func (Run) Testbed() error {
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed with the vulkan backend.
func (Run) Vulkan() error {
	fmt.Println("Run testbed (vulkan)...")
	if _, err := executeCmd("go", withArgs("run", "-tags", "vulkan", "."), withStream()); err != nil {
		return err
	}
	return nil
}
