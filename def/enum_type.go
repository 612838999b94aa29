package def

import (
	"strconv"

	"github.com/antchfx/xmlquery"
)

// NewEnumTypeFromXML reads a category="enum" type. The values live in the
// <enums> group of the same name, see GroupInfo.
func NewEnumTypeFromXML(node *xmlquery.Node) *TypeInfo {
	return newGenericTypeFromXML(node, CatEnum)
}

// GroupInfo is an <enums type="enum"> or <enums type="bitmask"> block. Values
// keep registry order: core members first, then values injected by features
// and extensions in the order they were read.
type GroupInfo struct {
	Name     string
	Type     string
	Expand   string
	BitWidth int
	Comment  string

	Values []*EnumInfo
	index  map[string]*EnumInfo
}

func (g *GroupInfo) IsBitmask() bool { return g.Type == "bitmask" }

// Push appends e unless a value of the same name is already present.
func (g *GroupInfo) Push(e *EnumInfo) bool {
	if g.index == nil {
		g.index = make(map[string]*EnumInfo)
	}
	if g.index[e.Name] != nil {
		return false
	}
	g.index[e.Name] = e
	e.BitWidth = g.BitWidth
	g.Values = append(g.Values, e)
	return true
}

// Value returns the member called name, or nil.
func (g *GroupInfo) Value(name string) *EnumInfo { return g.index[name] }

// Filter returns a copy of g holding only the values keep accepts.
func (g *GroupInfo) Filter(keep func(*EnumInfo) bool) *GroupInfo {
	rval := *g
	rval.Values = nil
	rval.index = nil
	for _, e := range g.Values {
		if keep(e) {
			rval.Push(e)
		}
	}
	return &rval
}

func NewGroupFromXML(node *xmlquery.Node, api string) *GroupInfo {
	rval := &GroupInfo{
		Name:     node.SelectAttr("name"),
		Type:     node.SelectAttr("type"),
		Expand:   node.SelectAttr("expand"),
		Comment:  node.SelectAttr("comment"),
		BitWidth: 32,
	}
	if bw, err := strconv.Atoi(node.SelectAttr("bitwidth")); err == nil {
		rval.BitWidth = bw
	}

	for _, elt := range node.SelectElements("enum") {
		if !MatchAPI(elt.SelectAttr("api"), api) {
			continue
		}
		rval.Push(NewEnumValueFromXML(elt))
	}
	return rval
}

func ReadEnumGroupsFromXML(doc *xmlquery.Node, reg *Registry) {
	for _, node := range xmlquery.Find(doc, "//registry/enums") {
		switch node.SelectAttr("type") {
		case "enum", "bitmask":
			reg.AddGroup(NewGroupFromXML(node, reg.API))
		}
	}
}
