package security

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathRule_RejectsNullByteAndLength(t *testing.T) {
	rule := PathRule{Field: "output.dir"}
	cfg := DefaultConfig(ProfileDevelopment)

	evs := rule.Check("bad\x00path", cfg)
	require.Len(t, evs, 1)
	assert.Equal(t, SeverityError, evs[0].Severity)

	evs = rule.Check(strings.Repeat("a", 1001), cfg)
	require.Len(t, evs, 1)
	assert.Contains(t, evs[0].Details, "1000")
}

func TestPathRule_RelativeOnlyAndDotDot(t *testing.T) {
	rule := PathRule{Field: "output.dir", RelativeOnly: true}
	cfg := DefaultConfig(ProfileDevelopment)

	evs := rule.Check("/abs/path", cfg)
	require.Len(t, evs, 1)

	evs = rule.Check("../escape", cfg)
	require.Len(t, evs, 1)
	assert.Contains(t, evs[0].Details, "..")
}

func TestPathRule_WarnsOnHomeAndEnvOnlyInProduction(t *testing.T) {
	rule := PathRule{Field: "output.dir"}

	dev := DefaultConfig(ProfileDevelopment)
	evs := rule.Check("~/configs/${HOME}", dev)
	assert.Empty(t, evs)

	prod := DefaultConfig(ProfileProduction)
	evs = rule.Check("~/configs/${HOME}", prod)
	require.Len(t, evs, 2)
	for _, ev := range evs {
		assert.Equal(t, SeverityWarning, ev.Severity)
	}
}

func TestNumberRule_BoundsAndNonFinite(t *testing.T) {
	min, max := 1.0, 10.0
	rule := NumberRule{Field: "retries", Min: &min, Max: &max}

	assert.Empty(t, rule.Check(5))
	require.Len(t, rule.Check(0), 1)
	require.Len(t, rule.Check(11), 1)
	require.Len(t, rule.Check(math.NaN()), 1)
}

func TestStringRule_NullBytePatternAndLength(t *testing.T) {
	minLen, maxLen := 2, 5
	rule := StringRule{Field: "name", MinLen: &minLen, MaxLen: &maxLen}

	assert.Empty(t, rule.Check("abc"))
	require.Len(t, rule.Check("a"), 1)
	require.Len(t, rule.Check("abcdefgh"), 1)
	require.Len(t, rule.Check("ab\x00cd"), 1)
}

func TestAuditLogger_BoundedRingBuffer(t *testing.T) {
	logger := NewAuditLogger(SeverityInfo, true)
	for i := 0; i < bufferCapacity+10; i++ {
		logger.Record(Event{Type: "t", Severity: SeverityInfo, Details: "x"})
	}
	assert.Equal(t, bufferCapacity, logger.Count())
	assert.Len(t, logger.Events(), bufferCapacity)
}

func TestAuditLogger_SeverityFloorFiltersEvents(t *testing.T) {
	logger := NewAuditLogger(SeverityWarning, true)
	logger.Record(Event{Type: "t", Severity: SeverityInfo})
	logger.Record(Event{Type: "t", Severity: SeverityError})
	assert.Equal(t, 1, logger.Count())
}

func TestAuditLogger_SanitizesHomeDirAndTruncates(t *testing.T) {
	SetHomeDirHint("/home/alice")
	defer SetHomeDirHint("")

	logger := NewAuditLogger(SeverityInfo, false)
	logger.Record(Event{Type: "t", Severity: SeverityInfo, Details: "/home/alice/configs/app.yaml"})
	evs := logger.Events()
	require.Len(t, evs, 1)
	assert.Contains(t, evs[0].Details, "~")
	assert.NotContains(t, evs[0].Details, "/home/alice")

	logger2 := NewAuditLogger(SeverityInfo, false)
	logger2.Record(Event{Type: "t", Severity: SeverityInfo, Details: strings.Repeat("x", 200)})
	evs2 := logger2.Events()
	require.Len(t, evs2, 1)
	assert.LessOrEqual(t, len(evs2[0].Details), 100)
}

func TestCrossSourceCheck_RecordsOverrideOnlyWhenBothPresent(t *testing.T) {
	check := CrossSourceCheck{Field: "port", CLIValue: 8081, CLIPresent: true, FileValue: 8080, FilePresent: true}
	ev := check.Evaluate()
	require.NotNil(t, ev)
	assert.Equal(t, SeverityInfo, ev.Severity)

	check2 := CrossSourceCheck{Field: "port", CLIPresent: true}
	assert.Nil(t, check2.Evaluate())
}

func TestValidator_ShouldFailRespectsProfileDefault(t *testing.T) {
	dev := NewValidator(DefaultConfig(ProfileDevelopment))
	errs := []Event{{Severity: SeverityError}}
	assert.False(t, dev.ShouldFail(errs))

	prod := NewValidator(DefaultConfig(ProfileProduction))
	assert.True(t, prod.ShouldFail(errs))
	assert.False(t, prod.ShouldFail([]Event{{Severity: SeverityWarning}}))
}
