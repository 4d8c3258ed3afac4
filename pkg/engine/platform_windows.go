//go:build windows

package engine

// Platform names the operating system the entry point was built for.
const Platform = "windows"

// PlatformSupported reports whether Main may run on this platform.
const PlatformSupported = true
