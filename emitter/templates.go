package emitter

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/erraggy/rulezod/internal/jsutil"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates *template.Template

func init() {
	var err error
	templates, err = template.New("").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		panic(err)
	}
}

var templateFuncs = template.FuncMap{
	"quote":  jsutil.Quote,
	"list":   jsutil.List,
	"indent": indent,
}

// fileData is the input of the "file" template.
type fileData struct {
	Imports   []string
	Namespace string
	Body      string
}

// declData is the input of the "decl" template.
type declData struct {
	Name       string
	TypeName   string
	Annotation string
	Expr       string
}

// refineData is the input of the "refine" template.
type refineData struct {
	Var    string
	Checks []refinement
}

func executeTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// indent prefixes every non-empty line with one indentation unit.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indentUnit + l
		}
	}
	return strings.Join(lines, "\n")
}
