package gen

import "text/template"

type importSpec struct {
	Alias string
	Path  string
}

type funcData struct {
	Doc       string
	Signature string
	Body      []string
}

type fileData struct {
	PackageName   string
	Imports       []importSpec
	Funcs         []funcData
	NeedsFallback bool
}

// fallbackFunc constructs a field through its own Default method.
const fallbackFunc = "deriveDefault"

var fileTemplate = template.Must(template.New("derive").Parse(`// Code generated by deriver. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range .Funcs}}
{{if .Doc}}// {{.Doc}}
{{end}}{{.Signature}} {
{{range .Body}}	{{.}}
{{end}}}
{{end}}
{{if .NeedsFallback}}
// ` + fallbackFunc + ` returns the Default() value of T when T provides one and the zero value otherwise.
func ` + fallbackFunc + `[T any]() T {
	var zero T
	if d, ok := any(zero).(interface{ Default() T }); ok {
		return d.Default()
	}

	return zero
}
{{end}}`))
