// Package version exposes the build version of an application.
//
// The version is set at link time and falls back to module build info:
//
//	go build -ldflags "-X github.com/kbukum/inject/version.Version=1.0.0"
package version
