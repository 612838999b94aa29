package feat

import (
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/bbredesen/vk-dgen/def"
	"github.com/sirupsen/logrus"
)

type Extension struct {
	*Feature

	extensionNumber int
	sortOrder       int
	supportedString string
	platformString  string
}

func ReadExtensionFromXML(extNode *xmlquery.Node, reg *def.Registry) *Extension {
	rval := Extension{
		Feature:         NewFeature(extNode.SelectAttr("name")),
		supportedString: extNode.SelectAttr("supported"),
		platformString:  extNode.SelectAttr("platform"),
	}
	rval.isExtension = true
	rval.protect = extNode.SelectAttr("protect")
	rval.comment = extNode.SelectAttr("comment")

	numStr := extNode.SelectAttr("number")
	var err error
	if rval.extensionNumber, err = strconv.Atoi(numStr); err != nil {
		logrus.WithField("extension", rval.Name()).WithField("number", numStr).
			WithError(err).Error("could not convert extension number")
	}
	if so := extNode.SelectAttr("sortorder"); so != "" {
		rval.sortOrder, _ = strconv.Atoi(so)
	}

	rval.readRequires(extNode, reg, numStr)
	return &rval
}

func (e *Extension) Number() int          { return e.extensionNumber }
func (e *Extension) PlatformName() string { return e.platformString }

// IsSupported reports whether the supported attribute lists api.
func (e *Extension) IsSupported(api string) bool {
	if e.supportedString == "" {
		return false
	}
	return def.MatchAPI(e.supportedString, api)
}

// bindPlatform attaches the platform named by the extension and inherits its
// protect symbol when the extension does not carry one.
func (e *Extension) bindPlatform(platforms PlatformRegistry) {
	if e.PlatformName() == "" {
		return
	}
	p := platforms[e.PlatformName()]
	if p == nil {
		logrus.WithField("extension", e.Name()).WithField("platform", e.PlatformName()).
			Warn("Extension names a platform that is not in the registry")
		return
	}
	e.platform = p
	if e.protect == "" {
		e.protect = p.Protect()
	}
}
