package def

import (
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
)

// NewDefineTypeFromXML has a few processing paths. The name is usually a
// child node but is an attribute for a few entries. Defines such as
// VK_API_VERSION_1_0 are macro calls; the macro is named in a <type> child and
// its arguments follow as plain text. VK_HEADER_VERSION is a bare value after
// the name. Defines whose text comments out the #define are kept but marked
// Disabled.
func NewDefineTypeFromXML(node *xmlquery.Node) *TypeInfo {
	rval := newGenericTypeFromXML(node, CatDefine)

	searchNode := node.SelectElement("name")
	if tnode := node.SelectElement("type"); tnode != nil {
		searchNode = tnode
	} else {
		rval.TypeName = ""
	}
	if searchNode == nil {
		return rval
	}

	if nameNode := node.SelectElement("name"); nameNode != nil {
		if prev := nameNode.PrevSibling; prev != nil && prev.Type == xmlquery.TextNode {
			lines := strings.Split(prev.Data, "\n")
			if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "//") {
				rval.Disabled = true
			}
		}
	}

	if next := searchNode.NextSibling; next != nil && next.Type == xmlquery.TextNode {
		text := next.Data
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[:i]
		}
		if matches := defineParamsRx.FindStringSubmatch(text); matches != nil {
			if rval.TypeName != "" {
				rval.MacroArgs = matches[1]
			} else {
				rval.Value = matches[1]
			}
		}
	}

	return rval
}

var defineParamsRx = regexp.MustCompile(`^\s*((?:\(.*\))|(?:\d+))\s*$`)

// MacroArgList splits the argument list of a macro call define,
// "(0, 1, 3, VK_HEADER_VERSION)" yielding four trimmed arguments.
func (t *TypeInfo) MacroArgList() []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(t.MacroArgs), "("), ")")
	if strings.TrimSpace(inner) == "" {
		return nil
	}
	rval := strings.Split(inner, ",")
	for i := range rval {
		rval[i] = strings.TrimSpace(rval[i])
	}
	return rval
}
