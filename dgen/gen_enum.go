package dgen

import (
	"fmt"
	"strings"

	"github.com/bbredesen/vk-dgen/def"
)

// GenGroup declares an enum group as a D enum. Flag groups go to the bitmask
// section, other groups to the group section. Groups with a 64 bit width get
// a ulong base type.
func (g *Generator) GenGroup(grp *def.GroupInfo, name string) {
	st := g.opts.Style
	prefix, suffix := grp.EnumAffixes()
	isEnum := !strings.Contains(prefix, "FLAG_BITS")

	wide := grp.BitWidth == 64
	maxEnum := "0x7FFFFFFF"
	base := ""
	if wide {
		maxEnum = "0x7FFFFFFFFFFFFFFF"
		base = " : ulong"
	}

	type member struct{ name, value string }
	members := make([]member, 0, len(grp.Values)+4)

	var (
		minName, maxName string
		minValue         int64
		maxValue         int64
		haveRange        bool
	)
	for _, e := range grp.Values {
		num, str, ok := e.Value(true)
		if str == "" {
			continue
		}
		members = append(members, member{e.Name, convertLongInt(str)})

		// only values declared in the group itself bound the range
		if !ok || !e.IsCore() || e.IsAlias() {
			continue
		}
		switch {
		case !haveRange:
			minName, maxName, minValue, maxValue, haveRange = e.Name, e.Name, num, num, true
		case num < minValue:
			minName, minValue = e.Name, num
		case num > maxValue:
			maxName, maxValue = e.Name, num
		}
	}

	synthesized := make([]member, 0, 4)
	if isEnum && st.RangePadding && haveRange {
		synthesized = append(synthesized,
			member{prefix + "_BEGIN_RANGE" + suffix, minName},
			member{prefix + "_END_RANGE" + suffix, maxName},
			member{prefix + "_RANGE_SIZE" + suffix, st.paren(fmt.Sprintf("%s - %s + 1", maxName, minName))},
		)
	}
	synthesized = append(synthesized, member{prefix + "_MAX_ENUM" + suffix, maxEnum})
	members = append(members, synthesized...)

	b := strings.Builder{}
	fmt.Fprintf(&b, "\nenum %s%s {\n", name, base)
	for i, m := range members {
		sep := ","
		if i == len(members)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\t%s = %s%s\n", m.name, m.value, sep)
	}
	b.WriteString("}")

	if st.GlobalEnums && len(members) > 0 {
		fmt.Fprintf(&b, "\n\n// %s global enums\n", name)
		for i, m := range members {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "enum %s = %s.%s;", m.name, name, m.name)
		}
	}

	sec := secGroup
	if grp.IsBitmask() {
		sec = secBitmask
	}
	g.appendSection(sec, b.String())
	g.Stats.Groups++
}

// GenEnum declares a standalone constant. A value naming a group member is
// qualified with the group so it resolves without global enums.
func (g *Generator) GenEnum(e *def.EnumInfo, name string) {
	_, str, _ := e.Value(false)
	if str == "" {
		return
	}
	g.appendSection(secEnum, fmt.Sprintf("enum %s = %s;", name, g.qualifyEnum(convertLongInt(str))))
	g.Stats.Enums++
}

func (g *Generator) qualifyEnum(value string) string {
	if !isIdentifier(value) {
		return value
	}
	if group, grouped := g.reg.GroupOf(value); grouped {
		return group + "." + value
	}
	return value
}
