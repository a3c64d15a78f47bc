// Package platform identifies the operating system the editor runs on.
//
// The value is detected once at startup and handed to the components that
// report it, so they never query the environment themselves.
package platform

import "runtime"

// Platform is one of a fixed set of operating system identifiers.
type Platform string

const (
	Windows Platform = "windows"
	MacOS   Platform = "macos"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// Values returns every platform identifier.
func Values() []Platform {
	return []Platform{Windows, MacOS, Linux, Unknown}
}

// FromGOOS maps a runtime.GOOS value to a Platform.
func FromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// Detect returns the platform of the running binary.
func Detect() Platform {
	return FromGOOS(runtime.GOOS)
}

func (p Platform) String() string {
	return string(p)
}
