//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Archive groups targets that operate on the local report archive.
type Archive mg.Namespace

// List prints the archived consultations.
func (Archive) List() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "archive", "list")
}

// Export writes archive/export.yaml and archive/export.json.
func (Archive) Export() error {
	mg.Deps(Build)
	if err := sh.RunV(binPath(), "archive", "export", "--format", "yaml"); err != nil {
		return err
	}
	return sh.RunV(binPath(), "archive", "export", "--format", "json")
}
