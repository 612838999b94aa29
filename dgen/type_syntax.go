package dgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bbredesen/vk-dgen/def"
)

var (
	rxSingleConst = regexp.MustCompile(`^const\s+(.+)\*\s*$`)
	rxDoubleConst = regexp.MustCompile(`^const\s+(.+)\*\s+const\*\s*$`)
	rxLongInt     = regexp.MustCompile(`([0-9A-Fa-f]+)ULL`)
	rxIdentifier  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func (s Style) constOf(t string) string {
	if s.Padded {
		return "const( " + t + " )"
	}
	return "const(" + t + ")"
}

func (s Style) paren(inner string) string {
	if inner == "" {
		return "()"
	}
	if s.Padded {
		return "( " + inner + " )"
	}
	return "(" + inner + ")"
}

func (s Style) bracket(dim string) string {
	if s.Padded {
		return "[ " + dim + " ]"
	}
	return "[" + dim + "]"
}

// convertTypeConst rewrites C pointer constness into D type constructors:
// "const T*" becomes const( T )* and "const T* const*" becomes const( T* )*.
func (s Style) convertTypeConst(typ string) string {
	if m := rxDoubleConst.FindStringSubmatch(typ); m != nil {
		return s.constOf(strings.TrimSpace(m[1])+"*") + "*"
	}
	if m := rxSingleConst.FindStringSubmatch(typ); m != nil {
		return s.constOf(strings.TrimSpace(m[1])) + "*"
	}
	return typ
}

// convertTypeArray appends array dimensions in D order. C declares
// float m[3][4] as three rows of four, which D writes float[4][3].
func (s Style) convertTypeArray(typ string, dims []string) string {
	for i := len(dims) - 1; i >= 0; i-- {
		typ += s.bracket(dims[i])
	}
	return typ
}

// stripStruct removes the struct keyword C needs for platform types.
func stripStruct(ctype string) string {
	fields := strings.Fields(ctype)
	kept := fields[:0]
	for _, f := range fields {
		if f != "struct" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// memberType is the D type of a struct member.
func (s Style) memberType(m *def.Member) string {
	return s.convertTypeArray(s.convertTypeConst(stripStruct(m.CType())), m.ArrayDims)
}

// paramType is the D type of a function parameter. Array parameters decay
// to pointers as they do in C.
func (s Style) paramType(m *def.Member) string {
	ctype := stripStruct(m.CType())
	if m.IsArray() {
		ctype += "*"
	}
	return s.convertTypeConst(ctype)
}

func convertLongInt(v string) string {
	return rxLongInt.ReplaceAllString(v, "${1}UL")
}

func isIdentifier(s string) bool { return rxIdentifier.MatchString(s) }

// bitfieldsMixin renders a run of C bit-field members as a std.bitmanip mixin.
func (s Style) bitfieldsMixin(fields []bitfield) string {
	parts := make([]string, 0, len(fields)*3)
	for _, f := range fields {
		parts = append(parts, f.typ, fmt.Sprintf("%q", f.name), fmt.Sprint(f.width))
	}
	return fmt.Sprintf("mixin%s;", s.paren("bitfields!"+s.paren(strings.Join(parts, ", "))))
}

type bitfield struct {
	typ, name string
	width     int
}
