// Package version exposes build version information set at link time:
//
//	go build -ldflags "-X github.com/kbukum/otelfunc/version.Version=1.0.0" ./cmd/otelfunc
//
// Missing values are filled from the module's embedded VCS build info.
// The function handler reports Short as service.version when
// none is configured.
package version
