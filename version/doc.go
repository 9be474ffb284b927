// Package version reports the build of the rivet binary.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/rivet/version.Version=0.3.0" ./cmd/rivet
//
// Missing values are filled from the module's embedded VCS settings.
package version
