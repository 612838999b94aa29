package feat

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/exp/slices"
)

type PlatformRegistry map[string]*Platform

// Platform is a window system or OS integration named by <platform>. DVersion
// is the D version identifier guarding its declarations and DImports the D
// modules providing its native types.
type Platform struct {
	platformName string
	protect      string
	comment      string

	DVersion string
	DImports []string
}

func NewPlatformFromXML(plNode *xmlquery.Node) *Platform {
	return &Platform{
		platformName: plNode.SelectAttr("name"),
		protect:      plNode.SelectAttr("protect"),
		comment:      plNode.SelectAttr("comment"),
	}
}

func ReadPlatformsFromXML(nodes []*xmlquery.Node) PlatformRegistry {
	rval := make(PlatformRegistry)
	for _, node := range nodes {
		p := NewPlatformFromXML(node)
		if rval[p.Name()] != nil {
			logrus.WithField("platform", p.Name()).Warn("Overwriting platform in registry")
		}
		rval[p.Name()] = p
	}
	return rval
}

func ReadPlatformExceptionsFromJSON(exceptions gjson.Result, pr PlatformRegistry) {
	exceptions.Get("platform").ForEach(func(key, exVal gjson.Result) bool {
		if strings.HasPrefix(key.String(), "!") {
			return true
		} // Ignore comments

		pr[key.String()] = NewOrUpdatePlatformFromJSON(key.String(), exVal, pr[key.String()])
		return true
	})
}

func NewOrUpdatePlatformFromJSON(key string, exception gjson.Result, existing *Platform) *Platform {
	updatedEntry := existing
	if existing == nil {
		logrus.WithField("registry type", key).Debug("no existing registry entry for platform in exceptions.json")
		updatedEntry = &Platform{
			platformName: key,
			comment:      exception.Get("comment").String(),
		}
	}

	// static mapping of vk platforms to D version identifiers and binding modules
	if v := exception.Get("d:version").String(); v != "" {
		updatedEntry.DVersion = v
	}
	if p := exception.Get("protect").String(); p != "" && updatedEntry.protect == "" {
		updatedEntry.protect = p
	}
	exception.Get("d:imports").ForEach(func(_, val gjson.Result) bool {
		if !slices.Contains(updatedEntry.DImports, val.String()) {
			updatedEntry.DImports = append(updatedEntry.DImports, val.String())
		}
		return true
	})

	return updatedEntry
}

func (p *Platform) Name() string    { return p.platformName }
func (p *Platform) Protect() string { return p.protect }

// Version returns the D version identifier for the platform, which is the
// protect symbol unless exceptions.json overrides it.
func (p *Platform) Version() string {
	if p.DVersion != "" {
		return p.DVersion
	}
	return p.protect
}
