// Package build provides build information that is linked into the application. Other
// packages within this project can use this information in logs etc..
package build

var (
	// Version is the build version of the binary (e.g. v0.1.0 or 'dev').
	Version = "dev"

	// Commit is the commit hash that the binary was built with.
	Commit = "none"

	// Date is the date that the binary was built.
	Date = "unknown"

	// ProjectName is the name used for log fields, metrics namespaces and the user agent.
	ProjectName = "squirrelid"
)

// UserAgent returns the user agent sent to remote lookup services.
func UserAgent() string {
	return ProjectName + "/" + Version
}
