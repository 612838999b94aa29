package def

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type TypeCategory int

const (
	CatNone TypeCategory = iota

	CatExternal
	CatInclude
	CatDefine
	CatBasetype
	CatHandle
	CatEnum
	CatBitmask
	CatFuncpointer
	CatStruct
	CatUnion

	CatMaximum
)

var categoryNames = map[string]TypeCategory{
	"":            CatExternal,
	"include":     CatInclude,
	"define":      CatDefine,
	"basetype":    CatBasetype,
	"handle":      CatHandle,
	"enum":        CatEnum,
	"bitmask":     CatBitmask,
	"funcpointer": CatFuncpointer,
	"struct":      CatStruct,
	"union":       CatUnion,
}

// CategoryFromString maps the category attribute of a registry type. Types
// without a category are provided by platform headers.
func CategoryFromString(s string) TypeCategory {
	if c, found := categoryNames[s]; found {
		return c
	}
	return CatNone
}

func (c TypeCategory) String() string {
	for k, v := range categoryNames {
		if v == c && k != "" {
			return k
		}
	}
	if c == CatExternal {
		return "external"
	}
	return "none"
}

type TypeRegistry map[string]*TypeInfo
type GroupRegistry map[string]*GroupInfo
type EnumRegistry map[string]*EnumInfo
type CommandRegistry map[string]*CommandInfo

type fnReadFromXML func(node *xmlquery.Node) *TypeInfo

func (c TypeCategory) ReadFn() fnReadFromXML {
	switch c {
	case CatExternal:
		return NewExternalTypeFromXML
	case CatInclude:
		return NewIncludeTypeFromXML
	case CatDefine:
		return NewDefineTypeFromXML
	case CatBasetype:
		return NewBaseTypeFromXML
	case CatHandle:
		return NewHandleTypeFromXML
	case CatEnum:
		return NewEnumTypeFromXML
	case CatBitmask:
		return NewBitmaskTypeFromXML
	case CatFuncpointer:
		return NewFuncpointerTypeFromXML
	case CatStruct:
		return NewStructTypeFromXML
	case CatUnion:
		return NewUnionTypeFromXML
	default:
		return nil
	}
}

// Registry is the api-filtered content of vk.xml. Interface definitions
// (features, extensions, platforms) are kept as raw nodes and read by package
// feat, which also injects extension enum values into Groups.
type Registry struct {
	API string

	Types    TypeRegistry
	Groups   GroupRegistry
	Enums    EnumRegistry
	Commands CommandRegistry

	enumGroup map[string]string

	FeatureNodes   []*xmlquery.Node
	ExtensionNodes []*xmlquery.Node
	PlatformNodes  []*xmlquery.Node
}

func NewRegistry(api string) *Registry {
	return &Registry{
		API:       api,
		Types:     make(TypeRegistry),
		Groups:    make(GroupRegistry),
		Enums:     make(EnumRegistry),
		Commands:  make(CommandRegistry),
		enumGroup: make(map[string]string),
	}
}

// ReadRegistry parses vk.xml from r, keeping only the elements that belong to api.
func ReadRegistry(r io.Reader, api string) (*Registry, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse registry")
	}
	if xmlquery.FindOne(doc, "//registry") == nil {
		return nil, errors.New("document has no <registry> element")
	}
	return ReadRegistryFromXML(doc, api), nil
}

func ReadRegistryFromXML(doc *xmlquery.Node, api string) *Registry {
	reg := NewRegistry(api)

	for _, node := range xmlquery.Find(doc, "//registry/types/type") {
		if !MatchAPI(node.SelectAttr("api"), api) {
			continue
		}
		cat := CategoryFromString(node.SelectAttr("category"))
		read := cat.ReadFn()
		if read == nil {
			logrus.WithField("category", node.SelectAttr("category")).Warn("Unknown type category in registry, skipping")
			continue
		}
		t := read(node)
		t.restrictToAPI(api)
		reg.AddType(t)
	}

	ReadEnumGroupsFromXML(doc, reg)
	ReadAPIConstantsFromXML(doc, reg)
	ReadCommandTypesFromXML(doc, reg)
	reg.resolveCommandAliases()

	reg.PlatformNodes = xmlquery.Find(doc, "//registry/platforms/platform")
	reg.FeatureNodes = xmlquery.Find(doc, "//registry/feature")
	reg.ExtensionNodes = xmlquery.Find(doc, "//registry/extensions/extension")

	return reg
}

func (r *Registry) AddType(t *TypeInfo) {
	if t == nil || t.Name == "" {
		return
	}
	if r.Types[t.Name] != nil {
		logrus.WithField("registry name", t.Name).Warn("Type already in registry, keeping first definition")
		return
	}
	r.Types[t.Name] = t
}

func (r *Registry) AddGroup(g *GroupInfo) {
	if r.Groups[g.Name] != nil {
		logrus.WithField("registry name", g.Name).Warn("Enum group already in registry, keeping first definition")
		return
	}
	r.Groups[g.Name] = g
	for _, e := range g.Values {
		r.enumGroup[e.Name] = g.Name
	}
}

// AddEnum records an enum that is not a member of any group, such as an API
// constant or an extension's SPEC_VERSION and EXTENSION_NAME.
func (r *Registry) AddEnum(e *EnumInfo) {
	if existing := r.Enums[e.Name]; existing != nil {
		logrus.WithField("registry name", e.Name).Debug("Enum already in registry, keeping first definition")
		return
	}
	r.Enums[e.Name] = e
}

// InjectEnum adds e to the group it extends. It returns false when the group
// is unknown or already holds a value with that name; in the latter case the
// source of e is recorded on the existing value.
func (r *Registry) InjectEnum(e *EnumInfo) bool {
	g := r.Groups[e.Extends]
	if g == nil {
		logrus.WithField("registry name", e.Name).WithField("extends", e.Extends).
			Warn("Enum extends a group that is not in the registry")
		return false
	}
	if !g.Push(e) {
		if existing := g.Value(e.Name); existing.Source != "" && existing.Source != e.Source {
			existing.AlsoRequiredBy = append(existing.AlsoRequiredBy, e.Source)
		}
		return false
	}
	r.enumGroup[e.Name] = g.Name
	return true
}

// GroupOf returns the name of the group holding the enum value name.
func (r *Registry) GroupOf(name string) (string, bool) {
	g, found := r.enumGroup[name]
	return g, found
}

func (r *Registry) resolveCommandAliases() {
	for _, cmd := range r.Commands {
		if cmd.Alias == "" {
			continue
		}
		target := r.Commands[cmd.Alias]
		for depth := 0; target != nil && target.Alias != "" && depth < 8; depth++ {
			target = r.Commands[target.Alias]
		}
		if target == nil || target.Proto == nil {
			logrus.WithField("registry name", cmd.Name).WithField("alias", cmd.Alias).
				Warn("Command alias target not found in registry")
			continue
		}
		proto := *target.Proto
		proto.Name = cmd.Name
		cmd.Proto = &proto
		cmd.Params = target.Params
	}
}

// MatchAPI reports whether a comma-separated api attribute includes api. An
// empty attribute matches every api.
func MatchAPI(attr, api string) bool {
	if attr == "" || api == "" {
		return true
	}
	for _, a := range strings.Split(attr, ",") {
		if strings.TrimSpace(a) == api {
			return true
		}
	}
	return false
}

// nameOf returns the name attribute of node or, failing that, the text of its <name> child.
func nameOf(node *xmlquery.Node) string {
	if n := node.SelectAttr("name"); n != "" {
		return n
	}
	if child := node.SelectElement("name"); child != nil {
		return strings.TrimSpace(child.InnerText())
	}
	return ""
}
