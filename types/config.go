// Package types holds the example application-configuration struct the
// confkit CLI validates against: a top-level struct of nested,
// `mapstructure`-tagged sections with go-playground/validator struct tags
// for value-level validation.
package types

// AppConfig is the example configuration schema the confkit CLI ships
// with. A real consumer of confkit supplies its own struct here; this one
// exists to exercise the schema.Kinds internal/schema/structschema.go
// recognizes other than any (scalar, nested object, array-of-struct, and an
// open map),
// plus every security rule family via `security:"..."` tags (Logging.File
// is path-kind, Server.Port is number-kind, Logging.Level is string-kind).
type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Logging  LoggingConfig  `mapstructure:"logging" validate:"required"`
	Sources  []SourceConfig `mapstructure:"sources"`
	Metadata map[string]any `mapstructure:"metadata" confkit:"open-map"`
}

// ServerConfig holds network-facing settings.
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535" security:"number,min=1,max=65535"`
}

// LoggingConfig holds logging-related settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug verbose info warn error silly" security:"string,minlen=3,maxlen=20"`
	// File is the optional log output path; empty means stderr.
	File string `mapstructure:"file" validate:"omitempty" security:"path,relative"`
}

// SourceConfig describes one upstream data source; a slice of this struct
// exercises the schema's array-of-struct field kind (index elided).
type SourceConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	URL  string `mapstructure:"url" validate:"required"`
}
