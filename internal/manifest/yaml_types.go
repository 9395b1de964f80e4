package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"deriver/internal/common"
)

// AnnotationSource is one annotation string together with its YAML position.
type AnnotationSource struct {
	Text string
	Mark Mark
	// Quoted is set when the scalar was written in quotes, so the text
	// starts one column after Mark.
	Quoted bool
}

// AnnotationList is a list of annotation strings. In YAML it accepts either
// a single string or an array of strings.
type AnnotationList []AnnotationSource

// Annotations builds an AnnotationList from plain strings.
func Annotations(texts ...string) AnnotationList {
	out := make(AnnotationList, 0, len(texts))
	for _, t := range texts {
		out = append(out, AnnotationSource{Text: t})
	}

	return out
}

// UnmarshalYAML implements custom YAML unmarshaling for AnnotationList.
func (l *AnnotationList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		src, err := annotationFromNode(node)
		if err != nil {
			return err
		}

		if src.Text != "" {
			*l = AnnotationList{src}
		} else {
			*l = AnnotationList{}
		}

		return nil

	case yaml.SequenceNode:
		out := make(AnnotationList, 0, len(node.Content))

		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: annotation must be a string, got %s", item.Line, kindName(item.Kind))
			}

			src, err := annotationFromNode(item)
			if err != nil {
				return err
			}

			out = append(out, src)
		}

		*l = out

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array, got %s", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML implements custom YAML marshaling for AnnotationList.
// Outputs a single string if length is 1, otherwise an array.
func (l AnnotationList) MarshalYAML() (any, error) {
	texts := l.Texts()
	if common.IsSingle(texts) {
		return texts[0], nil
	}

	return texts, nil
}

// Texts returns the annotation strings.
func (l AnnotationList) Texts() []string {
	out := make([]string, 0, len(l))
	for _, a := range l {
		out = append(out, a.Text)
	}

	return out
}

// UnmarshalYAML records the position of the type entry.
func (t *TypeDef) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeDef

	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*t = TypeDef(raw)
	t.Mark = Mark{Line: node.Line, Column: node.Column}

	if name := valueNode(node, "name"); name != nil {
		t.Mark = Mark{Line: name.Line, Column: name.Column}
	}

	return nil
}

// UnmarshalYAML records the position of the field entry.
func (f *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	type plain FieldDef

	var raw plain
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*f = FieldDef(raw)
	f.Mark = Mark{Line: node.Line, Column: node.Column}

	return nil
}

func annotationFromNode(node *yaml.Node) (AnnotationSource, error) {
	var text string
	if err := node.Decode(&text); err != nil {
		return AnnotationSource{}, err
	}

	quoted := node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0

	return AnnotationSource{
		Text:   text,
		Mark:   Mark{Line: node.Line, Column: node.Column},
		Quoted: quoted,
	}, nil
}

// valueNode returns the value of key in a mapping node.
func valueNode(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}

	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return common.UnknownStr
	}
}
