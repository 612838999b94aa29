package def

import (
	"github.com/antchfx/xmlquery"
)

// ReadAPIConstantsFromXML reads every <enums> block that is not an enum or
// bitmask group. In current registries that is the "API Constants" block.
func ReadAPIConstantsFromXML(doc *xmlquery.Node, reg *Registry) {
	for _, node := range xmlquery.Find(doc, "//registry/enums") {
		switch node.SelectAttr("type") {
		case "enum", "bitmask":
			continue
		}
		for _, elt := range node.SelectElements("enum") {
			if !MatchAPI(elt.SelectAttr("api"), reg.API) {
				continue
			}
			reg.AddEnum(NewEnumValueFromXML(elt))
		}
	}
}
