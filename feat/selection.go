package feat

import (
	"regexp"

	"github.com/bbredesen/vk-dgen/def"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/exp/slices"
)

// Catalog holds every interface definition of a registry. Reading the
// catalog injects extension enum values into the registry's groups, so it
// must happen before traversal.
type Catalog struct {
	Features   []*Feature
	Extensions []*Extension
	Platforms  PlatformRegistry
}

func ReadCatalog(reg *def.Registry, exceptions gjson.Result) *Catalog {
	rval := &Catalog{Platforms: ReadPlatformsFromXML(reg.PlatformNodes)}
	ReadPlatformExceptionsFromJSON(exceptions, rval.Platforms)

	for _, node := range reg.FeatureNodes {
		if !def.MatchAPI(node.SelectAttr("api"), reg.API) {
			continue
		}
		rval.Features = append(rval.Features, ReadFeatureFromXML(node, reg))
	}
	for _, node := range reg.ExtensionNodes {
		ext := ReadExtensionFromXML(node, reg)
		ext.bindPlatform(rval.Platforms)
		rval.Extensions = append(rval.Extensions, ext)
	}
	return rval
}

// Selection decides which interfaces are generated. Every feature for the
// api is included. An extension is included when its supported attribute
// lists DefaultExtensions or its name matches AddExtensions, and is then
// excluded again when its name matches RemoveExtensions.
//
// Core features that do not match EmitFeatures are still walked, so their
// entities count as declared, but nothing is generated for them. A nil
// EmitFeatures emits everything.
type Selection struct {
	API               string
	DefaultExtensions string
	AddExtensions     *regexp.Regexp
	RemoveExtensions  *regexp.Regexp
	EmitFeatures      *regexp.Regexp
}

func (s *Selection) emits(f *Feature) bool {
	return f.IsExtension() || s.EmitFeatures == nil || s.EmitFeatures.MatchString(f.Name())
}

// CompileNamePattern anchors expr so that it must match a whole interface
// name. An empty expression yields a nil pattern which matches nothing.
func CompileNamePattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	rx, err := regexp.Compile("^(" + expr + ")$")
	return rx, errors.Wrapf(err, "invalid extension pattern %q", expr)
}

func (s *Selection) IncludesExtension(e *Extension) bool {
	include := s.DefaultExtensions != "" && e.IsSupported(s.DefaultExtensions)
	if s.AddExtensions != nil && s.AddExtensions.MatchString(e.Name()) {
		include = true
	}
	if s.RemoveExtensions != nil && s.RemoveExtensions.MatchString(e.Name()) {
		include = false
	}
	return include
}

// Select returns the interfaces to generate in output order: features by
// version number, then extensions by sortorder and extension number.
func (c *Catalog) Select(sel *Selection) []*Feature {
	features := slices.Clone(c.Features)
	slices.SortStableFunc(features, func(a, b *Feature) int {
		aMajor, aMinor := a.versionKey()
		bMajor, bMinor := b.versionKey()
		if aMajor != bMajor {
			return aMajor - bMajor
		}
		return aMinor - bMinor
	})

	var exts []*Extension
	for _, e := range c.Extensions {
		if sel.IncludesExtension(e) {
			exts = append(exts, e)
		}
	}
	slices.SortStableFunc(exts, func(a, b *Extension) int {
		if a.sortOrder != b.sortOrder {
			return a.sortOrder - b.sortOrder
		}
		return a.Number() - b.Number()
	})

	rval := features
	for _, e := range exts {
		rval = append(rval, e.Feature)
	}
	return rval
}
