package confcore

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// starterTemplate is written by WriteStarterConfig: a minimal,
// hand-written YAML skeleton rather than a marshaled struct, so the
// starter file can carry comments; it has a single header comment line
// and no per-key comments.
const starterTemplate = `# %s configuration
server:
 host: 0.0.0.0
 port: 8080

logging:
 level: info

sources: []
`

// WriteStarterConfig implements the --init-config flag: it writes a
// starter configuration file named "<appName>.yaml" into dir unless one
// already exists, refusing to overwrite a file a user may have started
// editing.
func WriteStarterConfig(fs afero.Fs, dir, appName string) (string, error) {
	path := filepath.Join(dir, appName+".yaml")
	if exists, err := afero.Exists(fs, path); err == nil && exists {
		return path, fmt.Errorf("refusing to overwrite existing configuration file: %s", path)
	}
	content := fmt.Sprintf(starterTemplate, appName)
	if err := afero.WriteFile(fs, path, []byte(content), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
