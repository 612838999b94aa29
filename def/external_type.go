package def

import (
	"github.com/antchfx/xmlquery"
)

// NewExternalTypeFromXML reads a type without a category attribute, such as
// uint32_t (requires="vk_platform") or Display (requires="X11/Xlib.h"). These
// are provided by the D runtime or by a platform binding import.
func NewExternalTypeFromXML(node *xmlquery.Node) *TypeInfo {
	rval := newGenericTypeFromXML(node, CatExternal)
	// requires names a header here, not a type
	rval.Requires = ""
	return rval
}
