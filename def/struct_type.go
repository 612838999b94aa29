package def

import (
	"strconv"

	"github.com/antchfx/xmlquery"
)

// NewStructTypeFromXML reads a category="struct" type along with its members.
func NewStructTypeFromXML(node *xmlquery.Node) *TypeInfo {
	return newAggregateTypeFromXML(node, CatStruct)
}

func newAggregateTypeFromXML(node *xmlquery.Node, cat TypeCategory) *TypeInfo {
	rval := newGenericTypeFromXML(node, cat)
	if rval.IsAlias() {
		return rval
	}
	// the <type> children of a struct are its member types, not a target type
	rval.TypeName = ""

	for _, mNode := range xmlquery.Find(node, "member") {
		m := NewMemberFromXML(mNode)
		m.API = mNode.SelectAttr("api")
		rval.Members = append(rval.Members, m)
	}
	rval.restrictToAPI("")
	return rval
}

// restrictToAPI drops members specialized for another api and recomputes
// the dependency lists from the members that remain.
func (t *TypeInfo) restrictToAPI(api string) {
	if t.Category != CatStruct && t.Category != CatUnion {
		return
	}
	kept := t.Members[:0]
	t.typeDeps, t.enumDeps = nil, nil
	for _, m := range t.Members {
		if !MatchAPI(m.API, api) {
			continue
		}
		kept = append(kept, m)
		t.typeDeps = append(t.typeDeps, m.TypeName)
		for _, dim := range m.ArrayDims {
			if _, err := strconv.Atoi(dim); err != nil {
				t.enumDeps = append(t.enumDeps, dim)
			}
		}
	}
	t.Members = kept
}
