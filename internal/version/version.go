// ABOUTME: Version constants
// ABOUTME: Build identification used in logs and CLI output
package version

const (
	// Version is the library release.
	Version = "0.2.0"

	// Product is the human-readable product name.
	Product = "Wavepipe Radio"

	// Manufacturer identifies the project.
	Manufacturer = "Wavepipe"
)
