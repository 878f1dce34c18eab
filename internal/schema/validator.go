package schema

import (
	"fmt"

	"github.com/confkit/confkit/internal/corelog"
	"github.com/confkit/confkit/internal/corerr"
	"github.com/confkit/confkit/internal/document"
	"github.com/confkit/confkit/internal/fsx"
)

// State is one node of the validate() state machine.
type State int

const (
	StateInit State = iota
	StateCheckDirectory
	StateCheckExtraKeys
	StateCheckSchema
	StateOK
	StateFail
)

// DirectoryCheck configures "Directory existence check":
// when Enabled, confirm configDirectory exists; IsRequired controls
// whether a missing directory is fatal.
type DirectoryCheck struct {
	Enabled    bool
	IsRequired bool
	ConfigDir  string
}

// Validator runs the full state machine of the configuration core
type Validator struct {
	Descriptor Descriptor
	FS         fsx.Filesystem
	// Logger, when set, receives a Verbose line at every state transition.
	Logger corelog.Logger
}

// Validate runs INIT -> CHECK_DIRECTORY -> CHECK_EXTRA_KEYS -> CHECK_SCHEMA
// -> OK, aborting at the first failing state and returning a single typed
// error carrying the accumulated detail for that state.
func (v *Validator) Validate(doc *document.Document, dirCheck DirectoryCheck) error {
	v.enter(StateInit)

	v.enter(StateCheckDirectory)
	if dirCheck.Enabled {
		if err := v.checkDirectory(dirCheck); err != nil {
			v.enter(StateFail)
			return err
		}
	}

	v.enter(StateCheckExtraKeys)
	ku := FlattenKeys(v.Descriptor)
	if offending, allowed := ExtraKeys(doc, ku); len(offending) > 0 {
		v.enter(StateFail)
		return corerr.WithDetail(corerr.CodeExtraKeys,
			fmt.Sprintf("%d key(s) not in the allowed set", len(offending)),
			&corerr.ExtraKeysDetail{OffendingKeys: offending, AllowedKeys: allowed})
	}

	v.enter(StateCheckSchema)
	if failures := v.Descriptor.Validate(doc); len(failures) > 0 {
		fields := make([]corerr.FieldError, len(failures))
		for i, f := range failures {
			fields[i] = corerr.FieldError{Field: f.Field, Tag: f.Tag, Param: f.Param, Value: f.Value}
		}
		v.enter(StateFail)
		return corerr.WithDetail(corerr.CodeValidation, "schema rejected the configuration",
			&corerr.ValidationDetail{Fields: fields})
	}

	v.enter(StateOK)
	return nil
}

func (v *Validator) enter(s State) {
	if v.Logger != nil {
		v.Logger.Verbose(corelog.Fmt("schema validator state -> %s", s))
	}
}

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCheckDirectory:
		return "check_directory"
	case StateCheckExtraKeys:
		return "check_extra_keys"
	case StateCheckSchema:
		return "check_schema"
	case StateOK:
		return "ok"
	case StateFail:
		return "fail"
	default:
		return "unknown"
	}
}

func (v *Validator) checkDirectory(dirCheck DirectoryCheck) error {
	if dirCheck.ConfigDir == "" {
		return nil
	}
	if !v.FS.Exists(dirCheck.ConfigDir) {
		if dirCheck.IsRequired {
			return corerr.New(corerr.CodeNotFound, fmt.Sprintf("config directory %q does not exist", dirCheck.ConfigDir))
		}
		return nil
	}
	if !v.FS.IsDirectoryReadable(dirCheck.ConfigDir) {
		return corerr.New(corerr.CodeNotReadable, fmt.Sprintf("config directory %q is not readable", dirCheck.ConfigDir))
	}
	return nil
}
