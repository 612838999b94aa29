package def

import (
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/sirupsen/logrus"
)

var rxFuncPointer = regexp.MustCompile(`(?s)^\s*typedef\s+(.+?)\s*\(\s*VKAPI_PTR\s*\*\s*(\w+)\s*\)\s*\((.*)\)\s*;\s*$`)

// NewFuncpointerTypeFromXML reads a category="funcpointer" type. Older
// registries spell the whole C typedef as mixed text; newer ones wrap the
// return type and name in <proto> and each parameter in <param>. Both forms
// yield ReturnType and Params.
func NewFuncpointerTypeFromXML(node *xmlquery.Node) *TypeInfo {
	rval := newGenericTypeFromXML(node, CatFuncpointer)
	if rval.IsAlias() {
		return rval
	}
	rval.TypeName = ""

	if proto := node.SelectElement("proto"); proto != nil {
		p := NewMemberFromXML(proto)
		rval.Name = p.Name
		rval.ReturnType = p.CType()
		for _, pNode := range node.SelectElements("param") {
			rval.Params = append(rval.Params, NewMemberFromXML(pNode))
		}
		return rval
	}

	matches := rxFuncPointer.FindStringSubmatch(node.InnerText())
	if matches == nil {
		logrus.WithField("registry name", rval.Name).Warn("Could not parse funcpointer typedef")
		return rval
	}
	rval.ReturnType = strings.Join(strings.Fields(matches[1]), " ")
	if rval.Name == "" {
		rval.Name = matches[2]
	}

	params := strings.TrimSpace(matches[3])
	if params == "" || params == "void" {
		return rval
	}
	for _, decl := range strings.Split(params, ",") {
		rval.Params = append(rval.Params, ParseCParam(decl))
	}
	return rval
}
