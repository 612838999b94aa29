package def

import (
	"regexp"
	"strings"
)

var (
	rxWordBoundary = regexp.MustCompile(`([0-9a-z_])([A-Z0-9][^A-Z0-9]?)`)
	rxVendorSuffix = regexp.MustCompile(`[A-Z][A-Z]+$`)
)

// ExpandName converts a CamelCase registry type name to the upper snake case
// used for its enum values: VkColorSpaceKHR becomes VK_COLOR_SPACE_KHR.
func ExpandName(s string) string {
	return strings.ToUpper(rxWordBoundary.ReplaceAllString(s, "${1}_${2}"))
}

// EnumAffixes returns the prefix and vendor suffix used to build the names
// of synthesized members of an enum group, e.g. "VK_COLOR_SPACE" and "_KHR".
// A non-empty expand attribute overrides the computed prefix.
func (g *GroupInfo) EnumAffixes() (prefix, suffix string) {
	if g.Expand != "" {
		return g.Expand, ""
	}
	prefix = ExpandName(g.Name)
	if vendor := rxVendorSuffix.FindString(g.Name); vendor != "" {
		suffix = "_" + vendor
		if i := strings.LastIndex(prefix, suffix); i >= 0 {
			prefix = prefix[:i]
		}
	}
	return prefix, suffix
}
