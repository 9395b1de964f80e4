package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{pos: Position{File: "a.go", Line: 3, Column: 7}, want: "a.go:3:7"},
		{pos: Position{File: "a.go", Line: 3}, want: "a.go:3"},
		{pos: Position{Line: 3, Column: 1}, want: "-:3:1"},
		{pos: Position{File: "a.go"}, want: "a.go"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pos.String())
	}

	assert.False(t, Position{}.IsValid())
	assert.Equal(t, Position{File: "a.go", Line: 2, Column: 9}, Position{File: "a.go", Line: 2, Column: 4}.Advance(5))
	assert.Equal(t, Position{Line: 2, Column: 6}, Position{Line: 2}.Advance(5))
	assert.Equal(t, Position{}, Position{}.Advance(5))
}

func TestError_Messages(t *testing.T) {
	pos := Position{File: "pair.go", Line: 10, Column: 2}

	tests := []struct {
		err  *Error
		code string
		want string
	}{
		{
			err:  IncorrectAttributeFormat("Default", []string{"derive(Default)", `derive(Default = "value")`}, pos),
			code: "incorrect_attribute_format",
			want: `pair.go:10:2: you are using an incorrect format of the "Default" attribute; it needs to be formed into derive(Default) or derive(Default = "value")`,
		},
		{
			err:  IncorrectAttributeFormat("Default", nil, pos),
			code: "incorrect_attribute_format",
			want: `pair.go:10:2: you are using an incorrect format of the "Default" attribute; it cannot be used here`,
		},
		{
			err:  CapabilityNotInUse("Hash", pos),
			code: "capability_not_in_use",
			want: `pair.go:10:2: capability "Hash" is not derived for this type`,
		},
		{
			err:  CapabilityReused("DerefMut", Position{}),
			code: "capability_reused",
			want: `capability "DerefMut" is used more than once`,
		},
		{err: MultipleDefaultFields(pos), code: "multiple_default_fields", want: "pair.go:10:2: multiple default fields are set"},
		{err: NoDefaultField(pos), code: "no_default_field", want: "pair.go:10:2: there is no field set as default"},
		{
			err:  MalformedAnnotationTree("unterminated list", pos),
			code: "malformed_annotation_tree",
			want: "pair.go:10:2: malformed derive annotation: unterminated list",
		},
		{err: UnknownCapability("Defualt", "Default", pos), code: "unknown_capability", want: `pair.go:10:2: unknown capability "Defualt"`},
		{
			err:  NoSelectableField("DerefMut", pos),
			code: "no_selectable_field",
			want: `pair.go:10:2: capability "DerefMut" needs a field to select but the type has none`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.code, tt.err.Kind.Code())
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("deriving Pair: %w", NoDefaultField(Position{}))

	assert.True(t, IsKind(err, KindNoDefaultField))
	assert.False(t, IsKind(err, KindMultipleDefaultFields))
	assert.False(t, IsKind(errors.New("plain"), KindNoDefaultField))
	assert.False(t, IsKind(nil, KindNoDefaultField))
}

func TestFromError(t *testing.T) {
	pos := Position{File: "pair.go", Line: 4, Column: 1}

	d := FromError(UnknownCapability("Defualt", "Default", pos), "Pair")
	assert.Equal(t, DiagnosticError, d.Severity)
	assert.Equal(t, "unknown_capability", d.Code)
	assert.Equal(t, `unknown capability "Defualt"`, d.Message)
	assert.Equal(t, "Pair", d.TypeName)
	assert.Equal(t, "Defualt", d.Capability)
	assert.Equal(t, pos, d.Pos)
	assert.Equal(t, []string{"Default"}, d.Suggestions)
	assert.Equal(t, `pair.go:4:1 [Pair] Defualt: [unknown_capability] unknown capability "Defualt" (try: Default)`, d.String())

	// Usage examples are part of the message, not suggestions.
	d = FromError(IncorrectAttributeFormat("Default", []string{"derive(Default)"}, pos), "Pair")
	assert.Empty(t, d.Suggestions)
	assert.Contains(t, d.Message, "derive(Default)")

	d = FromError(errors.New("boom"), "Pair")
	assert.Equal(t, "internal", d.Code)
	assert.Equal(t, "boom", d.Message)
	assert.False(t, d.Pos.IsValid())
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("w", "careful", "Pair", Position{})
	d.AddInfo("i", "note", "Pair", Position{})
	assert.False(t, d.HasErrors())

	d.Report(nil, "Pair")
	assert.True(t, d.IsValid())

	d.Report(NoDefaultField(Position{File: "a.go", Line: 1}), "Pair")
	d.AddError("e", "broken", "", Position{})

	assert.True(t, d.HasErrors())
	assert.Equal(t, "a.go:1 [Pair] Default: [no_default_field] there is no field set as default; [e] broken", d.Error().Error())

	var other Diagnostics

	other.AddError("x", "other", "Box", Position{})
	d.Merge(other)

	all := d.All()
	require.Len(t, all, 5)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, "x", all[2].Code)
	assert.Equal(t, DiagnosticWarning, all[3].Severity)
	assert.Equal(t, DiagnosticInfo, all[4].Severity)
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}
