package domain

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Definitions is the persisted schema document: module name to Module.
type Definitions struct {
	Modules *orderedmap.OrderedMap[string, *Module] `json:"modules"`
}

// NewDefinitions returns an empty definitions document.
func NewDefinitions() *Definitions {
	return &Definitions{Modules: orderedmap.New[string, *Module]()}
}

// Module returns the named top-level module.
func (d *Definitions) Module(name string) (*Module, bool) {
	if d == nil || d.Modules == nil {
		return nil, false
	}
	return d.Modules.Get(name)
}

// Module is one node of the command tree.
type Module struct {
	Help      string
	Aliases   []string
	Template  string
	Examples  []Example
	Args      []ArgSpec
	Templates *orderedmap.OrderedMap[string, *Template]
	Modules   *orderedmap.OrderedMap[string, *Module]
}

// NewModule returns a module with empty, non-nil argument and example lists
// so that it is saved as {"examples": [], "args": []}.
func NewModule() *Module {
	return &Module{Examples: []Example{}, Args: []ArgSpec{}}
}

// HasModules reports whether the module declares nested subcommands.
func (m *Module) HasModules() bool {
	return m.Modules != nil && m.Modules.Len() > 0
}

type moduleJSON struct {
	Help      string                                    `json:"help,omitempty"`
	Aliases   []string                                  `json:"aliases,omitempty"`
	Template  string                                    `json:"template,omitempty"`
	Examples  *[]Example                                `json:"examples,omitempty"`
	Args      *[]ArgSpec                                `json:"args,omitempty"`
	Templates *orderedmap.OrderedMap[string, *Template] `json:"templates,omitempty"`
	Modules   *orderedmap.OrderedMap[string, *Module]   `json:"modules,omitempty"`
}

// MarshalJSON keeps empty but present argument and example lists.
func (m Module) MarshalJSON() ([]byte, error) {
	out := moduleJSON{
		Help:      m.Help,
		Aliases:   m.Aliases,
		Template:  m.Template,
		Templates: m.Templates,
		Modules:   m.Modules,
	}
	if m.Examples != nil {
		out.Examples = &m.Examples
	}
	if m.Args != nil {
		out.Args = &m.Args
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a module; unknown keys are ignored.
func (m *Module) UnmarshalJSON(data []byte) error {
	var in moduleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = Module{
		Help:      in.Help,
		Aliases:   in.Aliases,
		Template:  in.Template,
		Templates: in.Templates,
		Modules:   in.Modules,
	}
	if in.Examples != nil {
		m.Examples = *in.Examples
	}
	if in.Args != nil {
		m.Args = *in.Args
	}
	return nil
}

// Template is a reusable bundle of arguments and examples.
type Template struct {
	Parent   string    `json:"parent,omitempty"`
	Args     []ArgSpec `json:"args,omitempty"`
	Examples []Example `json:"examples,omitempty"`
}

// Clone returns a copy that shares no mutable state with t.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	out := &Template{Parent: t.Parent}
	if t.Args != nil {
		out.Args = make([]ArgSpec, len(t.Args))
		for i, a := range t.Args {
			out.Args[i] = a.Clone()
		}
	}
	if t.Examples != nil {
		out.Examples = append([]Example(nil), t.Examples...)
	}
	return out
}

// Example is one usage line appended to the generated help text.
type Example struct {
	Usage       string `json:"usage"`
	Description string `json:"description"`
}
