package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a derivation failure.
type ErrorKind int

const (
	KindIncorrectAttributeFormat ErrorKind = iota + 1
	KindCapabilityNotInUse
	KindCapabilityReused
	KindMultipleDefaultFields
	KindNoDefaultField
	KindMalformedAnnotationTree
	KindUnknownCapability
	KindNoSelectableField
)

// Code returns the stable diagnostic code of the kind.
func (k ErrorKind) Code() string {
	switch k {
	case KindIncorrectAttributeFormat:
		return "incorrect_attribute_format"
	case KindCapabilityNotInUse:
		return "capability_not_in_use"
	case KindCapabilityReused:
		return "capability_reused"
	case KindMultipleDefaultFields:
		return "multiple_default_fields"
	case KindNoDefaultField:
		return "no_default_field"
	case KindMalformedAnnotationTree:
		return "malformed_annotation_tree"
	case KindUnknownCapability:
		return "unknown_capability"
	case KindNoSelectableField:
		return "no_selectable_field"
	default:
		return "internal"
	}
}

// Error is a position-tagged validation failure. It is the only error type
// produced while resolving annotations and selecting fields.
type Error struct {
	Kind       ErrorKind
	Capability string
	// Usages lists correct spellings of the rejected annotation.
	Usages []string
	// Detail is an optional free-form explanation.
	Detail string
	Pos    Position
}

func (e *Error) Error() string {
	var msg string

	switch e.Kind {
	case KindIncorrectAttributeFormat:
		msg = fmt.Sprintf("you are using an incorrect format of the %q attribute", e.Capability)
		if len(e.Usages) > 0 {
			msg += "; it needs to be formed into " + strings.Join(e.Usages, " or ")
		} else {
			msg += "; it cannot be used here"
		}
	case KindCapabilityNotInUse:
		msg = fmt.Sprintf("capability %q is not derived for this type", e.Capability)
	case KindCapabilityReused:
		msg = fmt.Sprintf("capability %q is used more than once", e.Capability)
	case KindMultipleDefaultFields:
		msg = "multiple default fields are set"
	case KindNoDefaultField:
		msg = "there is no field set as default"
	case KindMalformedAnnotationTree:
		msg = "malformed derive annotation"
	case KindUnknownCapability:
		msg = fmt.Sprintf("unknown capability %q", e.Capability)
	case KindNoSelectableField:
		msg = fmt.Sprintf("capability %q needs a field to select but the type has none", e.Capability)
	default:
		msg = "derivation failed"
	}

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}

	return msg
}

// IncorrectAttributeFormat reports an annotation whose shape is not allowed.
func IncorrectAttributeFormat(capability string, usages []string, pos Position) *Error {
	return &Error{Kind: KindIncorrectAttributeFormat, Capability: capability, Usages: usages, Pos: pos}
}

// CapabilityNotInUse reports an annotation naming a capability that is not being derived.
func CapabilityNotInUse(capability string, pos Position) *Error {
	return &Error{Kind: KindCapabilityNotInUse, Capability: capability, Pos: pos}
}

// CapabilityReused reports the same capability annotated twice on one entity.
func CapabilityReused(capability string, pos Position) *Error {
	return &Error{Kind: KindCapabilityReused, Capability: capability, Pos: pos}
}

// MultipleDefaultFields reports a second field claiming the default selection.
func MultipleDefaultFields(pos Position) *Error {
	return &Error{Kind: KindMultipleDefaultFields, Capability: "Default", Pos: pos}
}

// NoDefaultField reports a multi-field aggregate without a default selection.
func NoDefaultField(pos Position) *Error {
	return &Error{Kind: KindNoDefaultField, Capability: "Default", Pos: pos}
}

// MalformedAnnotationTree reports an annotation tree the resolver cannot walk.
func MalformedAnnotationTree(detail string, pos Position) *Error {
	return &Error{Kind: KindMalformedAnnotationTree, Detail: detail, Pos: pos}
}

// UnknownCapability reports a capability name outside the known registry.
func UnknownCapability(name string, suggestion string, pos Position) *Error {
	e := &Error{Kind: KindUnknownCapability, Capability: name, Pos: pos}
	if suggestion != "" {
		e.Usages = []string{suggestion}
	}

	return e
}

// NoSelectableField reports a field-selection capability on a type without fields.
func NoSelectableField(capability string, pos Position) *Error {
	return &Error{Kind: KindNoSelectableField, Capability: capability, Pos: pos}
}

// IsKind reports whether err is a derivation Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}

	return false
}

// FromError converts err into an error Diagnostic.
func FromError(err error, typeName string) Diagnostic {
	var de *Error
	if !errors.As(err, &de) {
		return Diagnostic{
			Severity: DiagnosticError,
			Code:     "internal",
			Message:  err.Error(),
			TypeName: typeName,
		}
	}

	msg := de.Error()
	if de.Pos.IsValid() {
		msg = strings.TrimPrefix(msg, de.Pos.String()+": ")
	}

	d := Diagnostic{
		Severity:   DiagnosticError,
		Code:       de.Kind.Code(),
		Message:    msg,
		TypeName:   typeName,
		Capability: de.Capability,
		Pos:        de.Pos,
	}

	if de.Kind == KindUnknownCapability {
		d.Suggestions = append(d.Suggestions, de.Usages...)
	}

	return d
}
