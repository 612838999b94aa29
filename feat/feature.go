package feat

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/bbredesen/vk-dgen/def"
	"github.com/sirupsen/logrus"
)

// Feature is an interface definition: a core <feature> version block, or
// the requirements of an <extension> when embedded in Extension. Required
// names keep document order.
type Feature struct {
	name    string
	api     string
	version string
	comment string

	isExtension bool
	platform    *Platform
	protect     string

	requireTypeNames    []string
	requireEnumNames    []string
	requireCommandNames []string
}

func NewFeature(name string) *Feature {
	return &Feature{name: name}
}

func (f *Feature) Name() string        { return f.name }
func (f *Feature) Version() string     { return f.version }
func (f *Feature) IsExtension() bool   { return f.isExtension }
func (f *Feature) Platform() *Platform { return f.platform }

// Protect is the preprocessor symbol guarding the interface in C headers,
// e.g. VK_USE_PLATFORM_XLIB_KHR. It is empty for unguarded interfaces.
func (f *Feature) Protect() string { return f.protect }

func (f *Feature) RequiredTypes() []string    { return f.requireTypeNames }
func (f *Feature) RequiredEnums() []string    { return f.requireEnumNames }
func (f *Feature) RequiredCommands() []string { return f.requireCommandNames }

// versionKey orders features by the major and minor parts of their number attribute.
func (f *Feature) versionKey() (int, int) {
	major, minor, _ := strings.Cut(f.version, ".")
	ma, _ := strconv.Atoi(major)
	mi, _ := strconv.Atoi(minor)
	return ma, mi
}

func ReadFeatureFromXML(featureNode *xmlquery.Node, reg *def.Registry) *Feature {
	rval := NewFeature(featureNode.SelectAttr("name"))
	rval.api = featureNode.SelectAttr("api")
	rval.version = featureNode.SelectAttr("number")
	rval.comment = featureNode.SelectAttr("comment")

	rval.readRequires(featureNode, reg, "")
	return rval
}

// readRequires collects the <require> blocks of node that apply to the
// registry api. Enums that extend a group are injected into it; other enums
// that carry a value become registry constants. extNumber is the number of
// the enclosing extension, used for offset values that do not name one.
func (f *Feature) readRequires(node *xmlquery.Node, reg *def.Registry, extNumber string) {
	for _, reqNode := range node.SelectElements("require") {
		if !def.MatchAPI(reqNode.SelectAttr("api"), reg.API) {
			continue
		}

		for child := reqNode.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode || !def.MatchAPI(child.SelectAttr("api"), reg.API) {
				continue
			}
			name := child.SelectAttr("name")

			switch child.Data {
			case "type":
				f.requireTypeNames = append(f.requireTypeNames, name)

			case "command":
				f.requireCommandNames = append(f.requireCommandNames, name)

			case "enum":
				f.requireEnumNames = append(f.requireEnumNames, name)
				f.readEnum(child, reg, extNumber)
			}
		}
	}
}

func (f *Feature) readEnum(enumNode *xmlquery.Node, reg *def.Registry, extNumber string) {
	e := def.NewEnumValueFromXML(enumNode)
	e.Source = f.name
	if e.ExtNumber == "" {
		e.ExtNumber = extNumber
	}

	switch {
	case e.Extends != "":
		reg.InjectEnum(e)
	case e.RawValue != "" || e.Alias != "" || e.BitPos != "":
		reg.AddEnum(e)
	default:
		// a reference to a constant defined elsewhere, such as an API constant
		if _, found := reg.Enums[e.Name]; !found {
			if _, grouped := reg.GroupOf(e.Name); !grouped {
				logrus.WithField("registry name", e.Name).WithField("feature", f.name).
					Debug("Required enum has no definition in registry")
			}
		}
	}
}
