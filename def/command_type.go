package def

import (
	"github.com/antchfx/xmlquery"
	log "github.com/sirupsen/logrus"
)

// CommandInfo is one <command>. An alias command carries only Name and Alias
// when read; the registry fills in Proto and Params from the target once all
// commands are known.
type CommandInfo struct {
	Name    string
	Alias   string
	Comment string

	Proto  *Member
	Params []*Member
}

func (c *CommandInfo) IsAlias() bool { return c.Alias != "" }

// ReturnType is the C return type, e.g. "VkResult" or "void".
func (c *CommandInfo) ReturnType() string {
	if c.Proto == nil {
		return "void"
	}
	return c.Proto.CType()
}

// Dependencies lists the types named by the prototype and parameters.
func (c *CommandInfo) Dependencies() []string {
	rval := make([]string, 0, len(c.Params)+1)
	seen := make(map[string]bool)
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			rval = append(rval, n)
		}
	}
	if c.Proto != nil {
		add(c.Proto.TypeName)
	}
	for _, p := range c.Params {
		add(p.TypeName)
	}
	return rval
}

func ReadCommandTypesFromXML(doc *xmlquery.Node, reg *Registry) {
	for _, commandNode := range xmlquery.Find(doc, "//registry/commands/command") {
		if !MatchAPI(commandNode.SelectAttr("api"), reg.API) {
			continue
		}
		cmd := NewCommandFromXML(commandNode, reg.API)
		if cmd.Name == "" {
			log.Warn("Command without a name in registry, skipping")
			continue
		}
		if reg.Commands[cmd.Name] != nil {
			log.WithField("registry name", cmd.Name).Warn("Command already in registry, keeping first definition")
			continue
		}
		reg.Commands[cmd.Name] = cmd
	}
}

func NewCommandFromXML(elt *xmlquery.Node, api string) *CommandInfo {
	rval := &CommandInfo{Comment: elt.SelectAttr("comment")}

	if name := elt.SelectAttr("name"); name != "" {
		rval.Name = name
		rval.Alias = elt.SelectAttr("alias")
		return rval
	}

	if proto := elt.SelectElement("proto"); proto != nil {
		rval.Proto = NewMemberFromXML(proto)
		rval.Name = rval.Proto.Name
	}
	for _, p := range elt.SelectElements("param") {
		if !MatchAPI(p.SelectAttr("api"), api) {
			continue
		}
		rval.Params = append(rval.Params, NewMemberFromXML(p))
	}
	return rval
}
