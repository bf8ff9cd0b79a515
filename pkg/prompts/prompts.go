// Package prompts provides the prompt templates of the agent requests.
package prompts

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chatmodel"
)

// Template names.
const (
	// DecisionSystem is the system prompt of the decision request.
	DecisionSystem = "decision_system"
	// DecisionQuery is the user payload of the decision request.
	DecisionQuery = "decision_query"
	// ParametersSystem is the system prompt of the chain parameter request.
	ParametersSystem = "parameters_system"
	// SynthesisSystem is the system prompt of the synthesis request.
	SynthesisSystem = "synthesis_system"
)

// Names lists the templates every Set provides.
var Names = []string{DecisionSystem, DecisionQuery, ParametersSystem, SynthesisSystem}

const ext = ".tmpl"

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Data is the input of the templates.
type Data struct {
	Tools []chatmodel.ToolDescriptor
	Query string
}

// Set is a parsed set of prompt templates.
type Set struct {
	tmpl *template.Template
}

var defaultSet = mustDefault()

func mustDefault() *Set {
	s, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the built-in templates.
func Default() *Set {
	return defaultSet
}

// Parse returns the built-in templates with overrides applied,
// overrides is keyed by template name.
func Parse(overrides map[string]string) (*Set, error) {
	root := template.New("prompts").Funcs(funcMap())

	for _, name := range Names {
		text, ok := overrides[name]
		if !ok {
			b, err := templatesFS.ReadFile("templates/" + name + ext)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			text = string(b)
		}
		if _, err := root.New(name).Parse(text); err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %q", name)
		}
	}
	for name := range overrides {
		if !slices.Contains(Names, name) {
			return nil, errors.Newf("unknown template %q", name)
		}
	}
	return &Set{tmpl: root}, nil
}

// LoadDir returns the built-in templates, overridden by
// the <name>.tmpl files found in dir.
func LoadDir(dir string) (*Set, error) {
	overrides := map[string]string{}
	for _, name := range Names {
		b, err := os.ReadFile(filepath.Join(dir, name+ext))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.WithStack(err)
		}
		overrides[name] = string(b)
	}
	return Parse(overrides)
}

// Render executes the named template.
// The trailing new line of the template file is removed.
func (s *Set) Render(name string, data Data) (string, error) {
	t := s.tmpl.Lookup(name)
	if t == nil {
		return "", errors.Newf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to render template %q", name)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["payload"] = chatmodel.MarshalPayload
	return fm
}
