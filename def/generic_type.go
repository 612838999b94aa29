package def

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// TypeInfo is one <type> element of the registry. Category specific fields
// are only set for the categories that carry them.
type TypeInfo struct {
	Name     string
	Category TypeCategory
	Alias    string
	Comment  string

	Requires  string
	BitValues string
	// TypeName is the text of the first <type> child: the handle macro of a
	// handle, the flags type of a bitmask, the target of a basetype or the
	// macro called by a define.
	TypeName string

	// basetype
	PointerDepth int
	IsOpaque     bool

	// define
	MacroArgs string
	Value     string
	Disabled  bool

	// funcpointer
	ReturnType string
	Params     []*Member

	// struct, union
	Members []*Member

	typeDeps []string
	enumDeps []string
}

func (t *TypeInfo) IsAlias() bool { return t.Alias != "" }

// IsPlatformProvided reports whether the type comes from a C header rather than
// from the registry itself.
func (t *TypeInfo) IsPlatformProvided() bool {
	return t.Category == CatExternal || t.Category == CatInclude
}

// Dependencies lists the names of types that must be declared before t: the
// alias target, the flag bits group of a bitmask or the requires attribute,
// then every nested <type> in document order.
func (t *TypeInfo) Dependencies() []string {
	rval := make([]string, 0, len(t.typeDeps)+3)
	seen := map[string]bool{t.Name: true}
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			rval = append(rval, n)
		}
	}
	add(t.Alias)
	if t.Category == CatBitmask {
		add(t.FlagBits())
	} else {
		add(t.Requires)
	}
	for _, d := range t.typeDeps {
		add(d)
	}
	return rval
}

// EnumDependencies lists API constants referenced by nested <enum> elements,
// typically array sizes.
func (t *TypeInfo) EnumDependencies() []string { return t.enumDeps }

func newGenericTypeFromXML(node *xmlquery.Node, cat TypeCategory) *TypeInfo {
	rval := &TypeInfo{
		Name:      nameOf(node),
		Category:  cat,
		Alias:     node.SelectAttr("alias"),
		Comment:   node.SelectAttr("comment"),
		Requires:  node.SelectAttr("requires"),
		BitValues: node.SelectAttr("bitvalues"),
	}

	if typeNode := node.SelectElement("type"); typeNode != nil {
		rval.TypeName = strings.TrimSpace(typeNode.InnerText())
	}

	for _, n := range descendantElements(node, "type") {
		rval.typeDeps = append(rval.typeDeps, strings.TrimSpace(n.InnerText()))
	}
	for _, n := range descendantElements(node, "enum") {
		rval.enumDeps = append(rval.enumDeps, strings.TrimSpace(n.InnerText()))
	}

	return rval
}

// descendantElements returns the elements named name below node in document
// order. node itself is never included.
func descendantElements(node *xmlquery.Node, name string) []*xmlquery.Node {
	var rval []*xmlquery.Node
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if c.Data == name {
			rval = append(rval, c)
		}
		rval = append(rval, descendantElements(c, name)...)
	}
	return rval
}
