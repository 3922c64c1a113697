// Package version reports build metadata for the querycanon binary
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. Set at build time with
// -ldflags "-X 'querycanon/internal/core/version.version=v0.1.0'
// -X 'querycanon/internal/core/version.commit=abcd' -X 'querycanon/internal/core/version.date=2026-10-01'"
func Info() BuildInfo {
	return BuildInfo{
		Service: "querycanon",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
