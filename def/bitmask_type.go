package def

import (
	"github.com/antchfx/xmlquery"
)

// NewBitmaskTypeFromXML reads a category="bitmask" type. The flag bits group
// is named by requires on 32 bit masks and by bitvalues on 64 bit masks.
func NewBitmaskTypeFromXML(node *xmlquery.Node) *TypeInfo {
	rval := newGenericTypeFromXML(node, CatBitmask)
	if !rval.IsAlias() && rval.TypeName == "" {
		rval.TypeName = "VkFlags"
	}
	return rval
}

// FlagBits returns the name of the enum group holding the bit values of a bitmask.
func (t *TypeInfo) FlagBits() string {
	if t.BitValues != "" {
		return t.BitValues
	}
	return t.Requires
}
