//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles every package with the platform default backend and again with
// the vulkan backend.
func (Build) All() error {
	if _, err := executeCmd("go", withArgs("build", "./..."), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-tags", "vulkan", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and go vet for both backend selections.
func (Build) Vet() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("vet", "-tags", "vulkan", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
