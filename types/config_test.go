package types

import "testing"

func TestAppConfig_Structure(t *testing.T) {
	config := AppConfig{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
		Logging: LoggingConfig{Level: "info"},
		Sources: []SourceConfig{{Name: "primary", URL: "https://example.test"}},
		Metadata: map[string]any{
			"owner": "platform",
		},
	}

	if config.Server.Port != 8080 {
		t.Errorf("Server.Port mismatch: got %d, want %d", config.Server.Port, 8080)
	}
	if config.Logging.Level != "info" {
		t.Errorf("Logging.Level mismatch: got %q, want %q", config.Logging.Level, "info")
	}
	if len(config.Sources) != 1 || config.Sources[0].Name != "primary" {
		t.Errorf("Sources mismatch: got %+v", config.Sources)
	}
	if config.Metadata["owner"] != "platform" {
		t.Errorf("Metadata mismatch: got %+v", config.Metadata)
	}
}
