package security

// Profile selects a security posture, as two configurable
// profiles.
type Profile string

const (
	ProfileDevelopment Profile = "development"
	ProfileProduction  Profile = "production"
)

// Config carries the profile plus the audit-logger knobs of the configuration core
type Config struct {
	Profile                 Profile
	FailOnError             bool
	SeverityFloor           Severity
	IncludeSensitiveDetails bool
	RelativeOnlyPaths       bool
}

// DefaultConfig returns the profile's stated defaults: FailOnError is false
// for development and true for production. Even with FailOnError set,
// ShouldFail only fails on error- or critical-severity findings, never on a
// warning.
func DefaultConfig(profile Profile) Config {
	cfg := Config{
		Profile:       profile,
		SeverityFloor: SeverityInfo,
	}
	switch profile {
	case ProfileProduction:
		cfg.FailOnError = true
	default:
		cfg.FailOnError = false
	}
	return cfg
}

// IsProduction reports whether the configured profile treats the
// environment-variable and home-directory shortcut warnings as applicable.
func (c Config) IsProduction() bool { return c.Profile == ProfileProduction }
