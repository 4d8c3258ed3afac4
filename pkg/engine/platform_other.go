//go:build !unix && !windows

package engine

// Platform names the operating system the entry point was built for.
const Platform = "unknown"

// PlatformSupported is false: Main refuses to start here.
const PlatformSupported = false
