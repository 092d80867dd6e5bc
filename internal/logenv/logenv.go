// Package logenv fills in the environment github.com/teltech/logger reads
// during its own initialisation. Without SERVICE, VERSION and LOG_LEVEL the
// logger prints warnings to stdout, which would mix with converted text.
//
// Import it for side effects before the logger. Packages are initialised
// in import path order once their dependencies are, and this path sorts
// before github.com/teltech/logger.
package logenv

import "os"

// Service and Version are reported in every log entry.
const (
	Service = "textconv"
	Version = "1.0.0"
)

func init() {
	setDefault("SERVICE", Service)
	setDefault("VERSION", Version)
	setDefault("LOG_LEVEL", "INFO")
}

func setDefault(key, value string) {
	if os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}
