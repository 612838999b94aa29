package def

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// NewBaseTypeFromXML reads a category="basetype" type. A basetype with a
// <type> child is a typedef of that type. Without one it is either an opaque
// platform struct ("struct ANativeWindow;") or an opaque pointer
// ("typedef struct __IOSurface* IOSurfaceRef;").
func NewBaseTypeFromXML(node *xmlquery.Node) *TypeInfo {
	rval := newGenericTypeFromXML(node, CatBasetype)
	if rval.IsAlias() {
		return rval
	}

	nameNode := node.SelectElement("name")
	if nameNode == nil {
		return rval
	}
	declarator := ""
	if prev := nameNode.PrevSibling; prev != nil && prev.Type == xmlquery.TextNode {
		declarator = prev.Data
		if i := strings.LastIndex(declarator, "\n"); i >= 0 {
			declarator = declarator[i+1:]
		}
	}

	switch {
	case rval.TypeName != "":
		rval.PointerDepth = strings.Count(declarator, "*")
	case strings.Contains(declarator, "*"):
		rval.TypeName = "void"
		rval.PointerDepth = 1
	default:
		rval.IsOpaque = true
	}
	return rval
}
