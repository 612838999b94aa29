package def

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Member is a struct member, command parameter or command prototype. The C
// declaration is split around the <type> element: Prefix holds qualifiers
// written before it ("const ", "struct ") and Suffix the pointer declarators
// between the type and the name.
type Member struct {
	Name     string
	Prefix   string
	TypeName string
	Suffix   string

	ArrayDims []string
	BitWidth  int

	Values string
	Len    string
	API    string
}

// CType is the C type of the member without array dimensions, with the same
// spacing as the registry text, e.g. "const char* const*".
func (m *Member) CType() string {
	return strings.TrimLeft(m.Prefix, " \t\n") + m.TypeName + strings.TrimRight(m.Suffix, " \t\n")
}

func (m *Member) IsArray() bool { return len(m.ArrayDims) > 0 }

// IsStructQualified reports whether the declaration spells out the struct keyword.
func (m *Member) IsStructQualified() bool {
	for _, f := range strings.Fields(m.Prefix) {
		if f == "struct" {
			return true
		}
	}
	return false
}

var (
	rxArrayDim = regexp.MustCompile(`\[\s*([^\]]+?)\s*\]`)
	rxBitField = regexp.MustCompile(`:\s*(\d+)`)
)

// NewMemberFromXML reads a <member>, <param> or <proto> element.
func NewMemberFromXML(node *xmlquery.Node) *Member {
	rval := &Member{
		Values: node.SelectAttr("values"),
		Len:    node.SelectAttr("len"),
	}

	const (
		beforeType = iota
		beforeName
		afterName
	)
	state := beforeType
	tail := strings.Builder{}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			switch state {
			case beforeType:
				rval.Prefix += child.Data
			case beforeName:
				rval.Suffix += child.Data
			default:
				tail.WriteString(child.Data)
			}
		case xmlquery.ElementNode:
			switch child.Data {
			case "type":
				rval.TypeName = strings.TrimSpace(child.InnerText())
				state = beforeName
			case "name":
				rval.Name = strings.TrimSpace(child.InnerText())
				state = afterName
			case "enum":
				tail.WriteString(strings.TrimSpace(child.InnerText()))
			}
		}
	}

	parseDeclaratorTail(rval, tail.String())
	return rval
}

func parseDeclaratorTail(m *Member, tail string) {
	for _, match := range rxArrayDim.FindAllStringSubmatch(tail, -1) {
		m.ArrayDims = append(m.ArrayDims, match[1])
	}
	if match := rxBitField.FindStringSubmatch(tail); match != nil {
		m.BitWidth, _ = strconv.Atoi(match[1])
	}
}

// ParseCParam parses a plain C parameter declaration as found in the body of
// a funcpointer typedef, e.g. "const char* pMessage".
func ParseCParam(decl string) *Member {
	decl = strings.Join(strings.Fields(decl), " ")
	rval := &Member{}

	if i := strings.Index(decl, "["); i >= 0 {
		parseDeclaratorTail(rval, decl[i:])
		decl = strings.TrimSpace(decl[:i])
	}

	nameStart := strings.LastIndexFunc(decl, func(r rune) bool { return !isIdentRune(r) }) + 1
	rval.Name = decl[nameStart:]
	typ := strings.TrimSpace(decl[:nameStart])

	for _, q := range []string{"const ", "struct "} {
		if strings.HasPrefix(typ, q) {
			rval.Prefix += q
			typ = strings.TrimPrefix(typ, q)
		}
	}

	typeEnd := strings.IndexFunc(typ, func(r rune) bool { return !isIdentRune(r) })
	if typeEnd < 0 {
		typeEnd = len(typ)
	}
	rval.TypeName = typ[:typeEnd]
	rval.Suffix = strings.ReplaceAll(typ[typeEnd:], " ", "")
	rval.Suffix = strings.ReplaceAll(rval.Suffix, "const", " const")

	return rval
}

func isIdentRune(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
