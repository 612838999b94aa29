package feat

import (
	"github.com/bbredesen/vk-dgen/def"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Generator receives the selected interfaces in output order. Between
// BeginFeature and EndFeature it gets every entity the interface requires
// that no earlier interface declared, each preceded by its own dependencies.
type Generator interface {
	BeginFile() error
	EndFile() error

	BeginFeature(f *Feature, emit bool)
	EndFeature()

	GenType(t *def.TypeInfo, name string)
	GenStruct(t *def.TypeInfo, name string)
	GenGroup(g *def.GroupInfo, name string)
	GenEnum(e *def.EnumInfo, name string)
	GenCmd(c *def.CommandInfo, name string)
}

type entityKind int

const (
	kindType entityKind = iota
	kindEnum
	kindCommand
)

type entityKey struct {
	kind entityKind
	name string
}

type walker struct {
	reg      *def.Registry
	gen      Generator
	selected map[string]bool
	declared map[entityKey]bool
	emit     bool
}

// Traverse walks the interfaces sel picks from cat and drives gen.
func Traverse(reg *def.Registry, cat *Catalog, sel *Selection, gen Generator) error {
	interfaces := cat.Select(sel)

	w := &walker{
		reg:      reg,
		gen:      gen,
		selected: make(map[string]bool, len(interfaces)),
		declared: make(map[entityKey]bool),
	}
	for _, f := range interfaces {
		w.selected[f.Name()] = true
	}

	if err := gen.BeginFile(); err != nil {
		return errors.Wrap(err, "begin file")
	}
	for _, f := range interfaces {
		w.emit = sel.emits(f)
		logrus.WithField("feature", f.Name()).WithField("emit", w.emit).Debug("Generating interface")
		gen.BeginFeature(f, w.emit)
		for _, name := range f.RequiredTypes() {
			w.generateType(name)
		}
		for _, name := range f.RequiredEnums() {
			w.generateEnum(name)
		}
		for _, name := range f.RequiredCommands() {
			w.generateCommand(name)
		}
		gen.EndFeature()
	}
	return errors.Wrap(gen.EndFile(), "end file")
}

// markDeclared records key and reports whether it was new. Entities are
// marked before their dependencies are visited, which ends reference cycles
// such as a struct whose pNext points to itself.
func (w *walker) markDeclared(kind entityKind, name string) bool {
	key := entityKey{kind, name}
	if w.declared[key] {
		return false
	}
	w.declared[key] = true
	return true
}

func (w *walker) generateType(name string) {
	if name == "" || !w.markDeclared(kindType, name) {
		return
	}
	t := w.reg.Types[name]
	if t == nil {
		logrus.WithField("type name", name).Warn("Required type not found in registry")
		return
	}

	for _, dep := range t.Dependencies() {
		w.generateType(dep)
	}
	for _, e := range t.EnumDependencies() {
		w.generateEnum(e)
	}

	// C headers and the D runtime provide these
	if !w.emit || t.IsPlatformProvided() {
		return
	}
	switch {
	case t.Category == def.CatEnum && !t.IsAlias():
		g := w.reg.Groups[name]
		if g == nil {
			logrus.WithField("type name", name).Debug("Enum type has no value group")
			g = &def.GroupInfo{Name: name, Type: "enum", BitWidth: 32}
		}
		w.gen.GenGroup(g.Filter(func(e *def.EnumInfo) bool {
			return e.RequiredBy(func(s string) bool { return w.selected[s] })
		}), name)
	case (t.Category == def.CatStruct || t.Category == def.CatUnion) && !t.IsAlias():
		w.gen.GenStruct(t, name)
	default:
		w.gen.GenType(t, name)
	}
}

func (w *walker) generateEnum(name string) {
	if name == "" || !w.markDeclared(kindEnum, name) {
		return
	}
	if _, grouped := w.reg.GroupOf(name); grouped {
		// emitted with its group
		return
	}
	e := w.reg.Enums[name]
	if e == nil {
		logrus.WithField("enum name", name).Warn("Required enum not found in registry")
		return
	}
	if e.IsAlias() {
		w.generateEnum(e.Alias)
	}
	if w.emit {
		w.gen.GenEnum(e, name)
	}
}

func (w *walker) generateCommand(name string) {
	if name == "" || !w.markDeclared(kindCommand, name) {
		return
	}
	c := w.reg.Commands[name]
	if c == nil {
		logrus.WithField("command name", name).Warn("Required command not found in registry")
		return
	}
	if c.IsAlias() {
		w.generateCommand(c.Alias)
	}
	for _, dep := range c.Dependencies() {
		w.generateType(dep)
	}
	if w.emit {
		w.gen.GenCmd(c, name)
	}
}
