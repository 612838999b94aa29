package def

import (
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/sirupsen/logrus"
)

const (
	extEnumBase      = 1000000000
	extEnumBlockSize = 1000
)

// EnumInfo is one <enum> element, either a member of an enum group, an API
// constant or an enum required by a feature or extension.
type EnumInfo struct {
	Name    string
	Comment string

	RawValue  string
	BitPos    string
	Offset    string
	ExtNumber string
	Dir       string
	Alias     string
	Extends   string
	Type      string

	// BitWidth is 64 for members of 64 bit flag groups
	BitWidth int

	// Source names the feature or extension that introduced the value; core
	// group members have an empty source.
	Source         string
	AlsoRequiredBy []string
}

func (e *EnumInfo) IsAlias() bool { return e.Alias != "" }

// IsCore reports whether e is declared inside its group's <enums> block.
func (e *EnumInfo) IsCore() bool { return e.Source == "" && e.Extends == "" }

// RequiredBy reports whether e is core or was required by an interface that
// selected accepts.
func (e *EnumInfo) RequiredBy(selected func(string) bool) bool {
	if e.Source == "" || selected(e.Source) {
		return true
	}
	for _, s := range e.AlsoRequiredBy {
		if selected(s) {
			return true
		}
	}
	return false
}

func NewEnumValueFromXML(elt *xmlquery.Node) *EnumInfo {
	return &EnumInfo{
		Name:      elt.SelectAttr("name"),
		Comment:   elt.SelectAttr("comment"),
		RawValue:  elt.SelectAttr("value"),
		BitPos:    elt.SelectAttr("bitpos"),
		Offset:    elt.SelectAttr("offset"),
		ExtNumber: elt.SelectAttr("extnumber"),
		Dir:       elt.SelectAttr("dir"),
		Alias:     elt.SelectAttr("alias"),
		Extends:   elt.SelectAttr("extends"),
		Type:      elt.SelectAttr("type"),
		BitWidth:  32,
	}
}

// Value computes the value of e. str is the value as written in a C header
// (with ULL suffixes for wide bit values) or, for an alias, the aliased name.
// num is the numeric value and ok reports whether one could be computed; a
// value attribute is parsed only when needsNum is set.
func (e *EnumInfo) Value(needsNum bool) (num int64, str string, ok bool) {
	switch {
	case e.RawValue != "":
		str = e.RawValue
		if needsNum {
			n, err := strconv.ParseInt(e.RawValue, 0, 64)
			if err != nil {
				logrus.WithField("registry name", e.Name).WithField("value", e.RawValue).
					Debug("Enum value is not numeric")
				return 0, str, false
			}
			return n, str, true
		}
		return 0, str, false

	case e.BitPos != "":
		pos, err := strconv.Atoi(e.BitPos)
		if err != nil {
			logrus.WithField("registry name", e.Name).WithField("bitpos", e.BitPos).
				WithError(err).Error("could not convert enum bitpos")
			return 0, "", false
		}
		num, str = bitposValue(pos, e.BitWidth)
		return num, str, true

	case e.Offset != "":
		off, err := strconv.ParseInt(e.Offset, 10, 64)
		if err != nil {
			logrus.WithField("registry name", e.Name).WithField("offset", e.Offset).
				WithError(err).Error("could not convert enum offset string")
			return 0, "", false
		}
		extNum, err := strconv.ParseInt(e.ExtNumber, 10, 64)
		if err != nil {
			logrus.WithField("registry name", e.Name).WithField("extnumber", e.ExtNumber).
				WithError(err).Error("could not convert enum extension number")
			return 0, "", false
		}
		num = extEnumBase + (extNum-1)*extEnumBlockSize + off
		if e.Dir != "" {
			num = -num
		}
		return num, strconv.FormatInt(num, 10), true

	case e.Alias != "":
		return 0, e.Alias, false
	}

	return 0, "", false
}
