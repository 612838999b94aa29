package def

import (
	"github.com/antchfx/xmlquery"
)

// NewIncludeTypeFromXML reads a category="include" type. Includes only name
// C headers and never produce D declarations.
func NewIncludeTypeFromXML(node *xmlquery.Node) *TypeInfo {
	return newGenericTypeFromXML(node, CatInclude)
}
