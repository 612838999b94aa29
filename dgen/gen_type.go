package dgen

import (
	"fmt"
	"strings"

	"github.com/bbredesen/vk-dgen/def"
	"github.com/sirupsen/logrus"
)

// macros declared by the types.d header that define types may call
var headerMacros = map[string]bool{
	"VK_MAKE_VERSION":     true,
	"VK_MAKE_API_VERSION": true,
}

var aliasSections = map[def.TypeCategory]section{
	def.CatBasetype:    secBasetype,
	def.CatHandle:      secHandle,
	def.CatEnum:        secGroup,
	def.CatBitmask:     secBitmask,
	def.CatFuncpointer: secFuncpointer,
	def.CatStruct:      secStruct,
	def.CatUnion:       secStruct,
}

func (g *Generator) GenType(t *def.TypeInfo, name string) {
	if t.IsAlias() {
		sec, found := aliasSections[t.Category]
		if !found {
			logrus.WithField("type name", name).WithField("category", t.Category).Debug("Alias of category without declarations")
			return
		}
		g.appendSection(sec, fmt.Sprintf("alias %s = %s;", name, t.Alias))
		g.Stats.Types++
		return
	}

	switch t.Category {
	case def.CatHandle:
		macro := "VK_DEFINE_NON_DISPATCHABLE_HANDLE"
		if t.IsDispatchableHandle() {
			macro = "VK_DEFINE_HANDLE"
		}
		g.appendSection(secHandle, fmt.Sprintf("mixin%s;", g.opts.Style.paren(fmt.Sprintf("%s!q{%s}", macro, name))))

	case def.CatBasetype:
		switch {
		case t.IsOpaque:
			g.appendSection(secBasetype, fmt.Sprintf("struct %s;", name))
		default:
			g.appendSection(secBasetype, fmt.Sprintf("alias %s = %s%s;", name, t.TypeName, strings.Repeat("*", t.PointerDepth)))
		}

	case def.CatBitmask:
		g.appendSection(secBitmask, fmt.Sprintf("alias %s = %s;", name, t.TypeName))

	case def.CatFuncpointer:
		g.appendSection(secFuncpointer, g.funcpointerAlias(t, name))

	case def.CatDefine:
		decl := g.defineDecl(t, name)
		if decl == "" {
			return
		}
		g.appendSection(secDefine, decl)

	case def.CatStruct, def.CatUnion:
		g.GenStruct(t, name)
		return

	default:
		// include and platform types have no D declaration
		return
	}
	g.Stats.Types++
}

func (g *Generator) defineDecl(t *def.TypeInfo, name string) string {
	if t.Disabled {
		return ""
	}
	switch name {
	case "VK_HEADER_VERSION":
		// declared by the types.d header
		g.headerVersion = t.Value
		return ""
	case "VK_NULL_HANDLE":
		return ""
	}
	if t.TypeName != "" && headerMacros[t.TypeName] && t.MacroArgs != "" {
		return fmt.Sprintf("enum %s = %s%s;", name, t.TypeName, g.opts.Style.paren(strings.Join(t.MacroArgList(), ", ")))
	}
	if t.TypeName == "" && t.Value != "" {
		return fmt.Sprintf("enum %s = %s;", name, t.Value)
	}
	return ""
}

func (g *Generator) funcpointerAlias(t *def.TypeInfo, name string) string {
	st := g.opts.Style
	params := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		params = append(params, st.paramType(p)+" "+g.exc.RenameIdentifier(p.Name))
	}
	return fmt.Sprintf("alias %s = %s function%s;", name, st.convertTypeConst(t.ReturnType), st.paren(strings.Join(params, ", ")))
}

// GenStruct declares a struct or union. Members keep registry order; runs of
// bit-fields are packed into 32 bit std.bitmanip mixins.
func (g *Generator) GenStruct(t *def.TypeInfo, name string) {
	if t.IsAlias() {
		g.GenType(t, name)
		return
	}
	st := g.opts.Style

	type line struct {
		typ, name string
		mixin     string
	}
	lines := make([]line, 0, len(t.Members))
	var run []bitfield
	runBits := 0
	flush := func() {
		if len(run) == 0 {
			return
		}
		// std.bitmanip only accepts totals of 8, 16, 32 or 64 bits
		if pad := bitfieldPadding(runBits); pad > 0 {
			logrus.WithField("type name", name).WithField("bits", runBits).Debug("Padding bit-field run")
			run = append(run, bitfield{typ: run[0].typ, width: pad})
		}
		lines = append(lines, line{mixin: st.bitfieldsMixin(run)})
		run, runBits = nil, 0
	}

	for _, m := range t.Members {
		if m.IsStructQualified() {
			g.recordOpaque(m.TypeName)
		}
		memberName := g.exc.RenameIdentifier(m.Name)

		if m.BitWidth > 0 {
			if runBits > 0 && runBits%32+m.BitWidth > 32 {
				logrus.WithField("type name", name).WithField("member", m.Name).
					Warn("Bit-field crosses a 32 bit boundary, starting a new storage unit")
				flush()
			}
			run = append(run, bitfield{typ: stripStruct(m.CType()), name: memberName, width: m.BitWidth})
			if runBits += m.BitWidth; runBits%32 == 0 {
				flush()
			}
			continue
		}
		flush()

		if st.StructDefaults && m.Values != "" {
			value, _, _ := strings.Cut(m.Values, ",")
			if !st.GlobalEnums {
				value = g.qualifyEnum(value)
			}
			memberName += " = " + value
		}
		lines = append(lines, line{typ: st.memberType(m), name: memberName})
	}
	flush()

	width := 0
	if st.AlignMembers {
		for _, l := range lines {
			if l.mixin == "" && len(l.typ) > width {
				width = len(l.typ)
			}
		}
	}

	kind := "struct"
	if t.Category == def.CatUnion {
		kind = "union"
	}
	b := strings.Builder{}
	fmt.Fprintf(&b, "\n%s %s {\n", kind, name)
	for _, l := range lines {
		switch {
		case l.mixin != "":
			fmt.Fprintf(&b, "\t%s\n", l.mixin)
		case st.AlignMembers:
			fmt.Fprintf(&b, "\t%-*s  %s;\n", width, l.typ, l.name)
		default:
			fmt.Fprintf(&b, "\t%s %s;\n", l.typ, l.name)
		}
	}
	b.WriteString("}")

	g.appendSection(secStruct, b.String())
	g.Stats.Structs++
}

// bitfieldPadding returns the bits needed to round a run up to a storage
// size std.bitmanip accepts.
func bitfieldPadding(bits int) int {
	for _, size := range []int{8, 16, 32, 64} {
		if bits <= size {
			return size - bits
		}
	}
	return 0
}
