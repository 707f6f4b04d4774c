package cli

import "github.com/willibrandon/goslm/cmd/goslm/version"

// GetVersion returns the version string shown by --version
func GetVersion() string {
	return version.Version
}

// GetFullVersion returns detailed version information
func GetFullVersion() string {
	return version.FullInfo()
}
