package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand_SubstitutesBothFormsAndLeavesUnresolved(t *testing.T) {
	fn := func(name string) (string, bool) {
		if name == "HOME" {
			return "/home/alice", true
		}
		return "", false
	}
	out := Expand("path=$HOME/configs/${MISSING}/x", fn)
	assert.Equal(t, "path=/home/alice/configs/${MISSING}/x", out)
}

func TestOSExpander_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("CONFKIT_TEST_VAR", "value")
	fn := OSExpander()
	v, ok := fn("CONFKIT_TEST_VAR")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestDotEnvExpander_MissingFileIsNotAnError(t *testing.T) {
	fn, err := DotEnvExpander("/nonexistent/path/.env")
	assert.NoError(t, err)
	_, ok := fn("ANYTHING")
	assert.False(t, ok)
}
