package confcore

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confkit/confkit/internal/discovery"
	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/fsx"
	"github.com/confkit/confkit/internal/schema"
	"github.com/confkit/confkit/internal/security"
)

// permissiveDescriptor declares no fields of its own, so FlattenKeys'
// AlwaysAllowedTopLevel set is the only thing these tests rely on; it
// exists purely to satisfy schema.Descriptor without pulling in
// types.AppConfig's stricter shape.
type permissiveDescriptor struct{}

func (permissiveDescriptor) Fields() []schema.Field { return nil }
func (permissiveDescriptor) Validate(*document.Document) []schema.FieldFailure {
	return nil
}

func mustInt(v document.Value) int64 {
	i, _ := v.Int()
	return i
}

func TestInstance_Read_InnermostDirectoryWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/go.mod", []byte("module repo\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/.testapp/testapp.config.yaml", []byte("server:\n host: outer\n port: 8080\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/sub/.testapp/testapp.config.yaml", []byte("server:\n host: inner\n"), 0o644))

	inst := Create(Options{
		AppName:    "testapp",
		FS:         fsx.Afero{FS: fs},
		Descriptor: permissiveDescriptor{},
		Discovery: discovery.Options{
			ConfigDirName: ".testapp",
			Mode:          discovery.ModeEnabled,
		},
	})

	result, err := inst.Read("/repo/sub")
	require.NoError(t, err)
	require.NotNil(t, result.Value)

	server, ok := result.Value.Get("server")
	require.True(t, ok)
	serverDoc, _ := server.Document()
	host, _ := serverDoc.Get("host")
	assert.Equal(t, "inner", host.MustString(), "innermost directory's value must win")
	port, _ := serverDoc.Get("port")
	assert.Equal(t, int64(8080), mustInt(port), "outer-only field must survive the merge")

	assert.Len(t, result.DiscoveredConfigDirs, 2)
	assert.Len(t, result.ResolvedConfigDirs, 2)
}

// portRuleDescriptor declares a single number-kind security rule on
// "server.port", so Read's security-validator pass has something to flag.
type portRuleDescriptor struct{}

func (portRuleDescriptor) Fields() []schema.Field {
	max := 65535.0
	return []schema.Field{
		{Path: "server.port", Kind: schema.KindScalar, Security: schema.FieldSecurity{Kind: schema.FieldSecurityNumber, Max: &max}},
	}
}
func (portRuleDescriptor) Validate(*document.Document) []schema.FieldFailure { return nil }

func TestInstance_Read_PopulatesSecurityFindings(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/.testapp/testapp.config.yaml", []byte("server:\n host: h\n port: 70000\n"), 0o644))

	inst := Create(Options{
		AppName:    "testapp",
		FS:         fsx.Afero{FS: fs},
		Descriptor: portRuleDescriptor{},
		Discovery: discovery.Options{
			ConfigDirName: ".testapp",
			Mode:          discovery.ModeEnabled,
		},
		Security: security.DefaultConfig(security.ProfileDevelopment),
	})

	result, err := inst.Read("/repo")
	require.NoError(t, err)
	require.NotEmpty(t, result.SecurityFindings, "expected a finding for an out-of-range port")
	assert.Equal(t, "server.port", result.SecurityFindings[0].Field)
}

func TestInstance_Read_NoConfigDirsIsNotAnError(t *testing.T) {
	fs := afero.NewMemMapFs()
	inst := Create(Options{
		AppName:    "testapp",
		FS:         fsx.Afero{FS: fs},
		Descriptor: permissiveDescriptor{},
		Discovery: discovery.Options{
			ConfigDirName: ".testapp",
			Mode:          discovery.ModeEnabled,
		},
	})

	result, err := inst.Read("/empty")
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	assert.Empty(t, result.ResolvedConfigDirs)
}
