//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	samplesDir = "testdata/resumes"
	jsonDir    = "json"
)

// Convert builds the CLI and converts every PDF in testdata/resumes into json/.
func Convert() error {
	mg.Deps(Build)
	if err := requireSamples(); err != nil {
		return err
	}
	return sh.RunV(filepath.Join(binDir, binName), "batch", samplesDir, "--out-dir", jsonDir)
}

// Index converts the sample resumes and indexes them in the resume store.
func Index() error {
	mg.Deps(Build)
	if err := requireSamples(); err != nil {
		return err
	}
	return sh.RunV(filepath.Join(binDir, binName), "batch", samplesDir, "--out-dir", jsonDir, "--force", "--store")
}

func requireSamples() error {
	if _, err := os.Stat(samplesDir); err != nil {
		return fmt.Errorf("sample resumes: %w (place PDFs under %s)", err, samplesDir)
	}
	return nil
}
