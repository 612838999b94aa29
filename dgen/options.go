package dgen

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
)

// Layout selects the set of D modules written.
type Layout int

const (
	// LayoutDispatch writes package.d, types.d and functions.d with
	// function pointers loaded through vkGetInstanceProcAddr and a
	// DispatchDevice struct.
	LayoutDispatch Layout = iota
	// LayoutSplit writes package.d, types.d, statfun.d with static
	// prototypes and dynload.d with a shared library loader, chosen by a
	// version identifier.
	LayoutSplit
	// LayoutDynload writes package.d, types.d and dynload.d only.
	LayoutDynload
)

var layoutNames = []string{"dispatch", "split", "dynload"}

func (l Layout) String() string {
	if int(l) < len(layoutNames) {
		return layoutNames[l]
	}
	return "unknown"
}

func ParseLayout(s string) (Layout, error) {
	for i, n := range layoutNames {
		if strings.EqualFold(n, s) {
			return Layout(i), nil
		}
	}
	return 0, errors.Errorf("unknown layout %q, expected one of %s", s, strings.Join(layoutNames, ", "))
}

// Style controls formatting details that differ between binding flavours.
type Style struct {
	// Padded puts spaces inside parentheses and brackets: const( T )*, [ N ].
	Padded bool
	// AlignMembers pads struct member types to a common width.
	AlignMembers bool
	// RangePadding adds _BEGIN_RANGE, _END_RANGE and _RANGE_SIZE members to
	// non-flag enums.
	RangePadding bool
	// StructDefaults initializes members that have a values attribute, such as sType.
	StructDefaults bool
	// GlobalEnums repeats every group member as a module level enum.
	GlobalEnums bool
}

func EruptedStyle() Style {
	return Style{Padded: true, AlignMembers: true, RangePadding: true, StructDefaults: true, GlobalEnums: true}
}

func CompactStyle() Style {
	return Style{}
}

func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "erupted":
		return EruptedStyle(), nil
	case "compact":
		return CompactStyle(), nil
	}
	return Style{}, errors.Errorf("unknown style %q, expected erupted or compact", s)
}

type Options struct {
	OutDir string
	// PackagePrefix is the D package holding the modules, e.g. "erupted".
	PackagePrefix string
	// NamePrefix names the loader class and version identifiers, e.g. "Erupted".
	NamePrefix string
	Layout     Layout
	Style      Style
}

// Normalize validates o and derives missing names. The name prefix is
// converted to CamelCase; an empty package prefix is the snake case form of
// the name prefix.
func (o *Options) Normalize() error {
	if o.OutDir == "" {
		return errors.New("output directory is required")
	}
	if o.NamePrefix == "" {
		return errors.New("name prefix is required")
	}
	o.NamePrefix = strcase.ToCamel(o.NamePrefix)
	if o.PackagePrefix == "" {
		o.PackagePrefix = strcase.ToSnake(o.NamePrefix)
	}
	return nil
}

func (o *Options) nameUpper() string {
	return strings.ToUpper(o.NamePrefix)
}
