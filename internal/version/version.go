// Package version exposes the build identity stamped into the binary.
package version

// Overwritten by -ldflags "-X ...internal/version.Version=..." on release
// builds; a plain source build reports dev/unknown.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build identity for startup logs, e.g. "1.2.0 (9f2c1aa)".
func String() string {
	return Version + " (" + Commit + ")"
}
