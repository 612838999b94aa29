package def

import (
	"github.com/antchfx/xmlquery"
)

// NewUnionTypeFromXML reads a category="union" type. Unions share the member
// layout of structs.
func NewUnionTypeFromXML(node *xmlquery.Node) *TypeInfo {
	return newAggregateTypeFromXML(node, CatUnion)
}
