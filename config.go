package aob

import "github.com/coregx/aob/simd"

// Config controls how a Needle is searched. The match set never depends on
// the configuration, only the speed of finding it does.
//
// Example:
//
//	config := aob.DefaultConfig()
//	config.DisablePrefilter = true // plain sliding window
//	n, err := aob.CompileWithConfig("E8 ? ? ? ? 85 C0", config)
type Config struct {
	// ForceMethod makes the needle use Method instead of the width chosen
	// by simd.Select. A forced width longer than the needle falls back to
	// the widest usable width that fits.
	// Default: false
	ForceMethod bool

	// Method is the compare width used when ForceMethod is set.
	Method simd.Method

	// Capabilities is the set of widths the needle may use. The zero value
	// means the host report, simd.Detect().
	Capabilities simd.Capabilities

	// DisablePrefilter turns off the prefilter (see package prefilter).
	// Candidates are then tested at every offset.
	// Default: false
	DisablePrefilter bool
}

// DefaultConfig returns the configuration used by Compile and FromBytes:
// automatic width selection on the host capabilities, prefilter on.
func DefaultConfig() Config {
	return Config{}
}

// Validate checks if the configuration is valid.
//
// A forced Method must be a defined method and must be present in the
// capability set.
func (c Config) Validate() error {
	if !c.ForceMethod {
		return nil
	}
	if !c.Method.Valid() {
		return &ConfigError{
			Field:   "Method",
			Message: "unknown method " + c.Method.String(),
		}
	}
	if !c.capabilities().Has(c.Method) {
		return &ConfigError{
			Field:   "Method",
			Message: c.Method.String() + " is not supported (have " + c.capabilities().String() + ")",
		}
	}
	return nil
}

func (c Config) capabilities() simd.Capabilities {
	if c.Capabilities == 0 {
		return simd.Detect()
	}
	return c.Capabilities
}

// method picks the compare width for a needle of n bytes.
func (c Config) method(n int) simd.Method {
	caps := c.capabilities()
	if c.ForceMethod {
		caps = caps.Limit(c.Method)
	}
	return simd.Select(n, caps)
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return "aob: invalid config: " + e.Field + ": " + e.Message
}
