// Package version exposes build-time version information for ecoshopper.
package version

// version is overridden at build time via
// -ldflags "-X github.com/rshade/ecoshopper/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Set by the linker.
var version = "dev"

// GetVersion returns the ecoshopper version string.
func GetVersion() string {
	if version == "" {
		return "dev"
	}
	return version
}
