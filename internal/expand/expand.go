// Package expand provides the injected environment-variable expander: the
// resolver reads environment variables only through an injected expander
// function, never by calling os.Getenv directly itself.
package expand

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

// Expander resolves a bare variable name (no "$"/"${}" decoration) to its
// value and whether it was found. Callers of internal/loader and
// internal/resolver inject one of these; confkit's own packages never call
// os.Getenv directly.
type Expander func(name string) (string, bool)

// refPattern matches $NAME and ${NAME} references inside a string.
var refPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Expand substitutes every $NAME/${NAME} reference in s using fn. A
// reference fn does not resolve is left untouched, matching a Rego-style
// "best effort" expansion rather than failing the whole document.
func Expand(s string, fn Expander) string {
	return refPattern.ReplaceAllStringFunc(s, func(match string) string {
		sub := refPattern.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if v, ok := fn(name); ok {
			return v
		}
		return match
	})
}

// OSExpander reads from the real process environment. Hosts that want
// confkit's resolver to see OS environment variables inject this
// explicitly; it is never wired in automatically.
func OSExpander() Expander {
	return func(name string) (string, bool) {
		return os.LookupEnv(name)
	}
}

// DotEnvExpander loads the given .env-style files (via
// github.com/joho/godotenv) into a private map and resolves names from
// it, never touching the real process environment. A missing file is not
// an error, mirroring godotenv.Load's own tolerance for an absent .env.
func DotEnvExpander(files ...string) (Expander, error) {
	values := map[string]string{}
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		loaded, err := godotenv.Read(f)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for k, v := range loaded {
			values[k] = v
		}
	}
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}, nil
}
