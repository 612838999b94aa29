package def

import (
	"github.com/antchfx/xmlquery"
)

// NewHandleTypeFromXML reads a category="handle" type. TypeName holds the
// defining macro, VK_DEFINE_HANDLE or VK_DEFINE_NON_DISPATCHABLE_HANDLE.
func NewHandleTypeFromXML(node *xmlquery.Node) *TypeInfo {
	return newGenericTypeFromXML(node, CatHandle)
}

func (t *TypeInfo) IsDispatchableHandle() bool {
	return t.Category == CatHandle && t.TypeName == "VK_DEFINE_HANDLE"
}
