package dgen

import (
	"fmt"
	"strings"

	"github.com/bbredesen/vk-dgen/def"
)

type commandLevel int

const (
	levelGlobal commandLevel = iota
	levelInstance
	levelDevice
)

// globalLevelNames are loaded before any instance exists.
var globalLevelNames = map[string]bool{
	"vkGetInstanceProcAddr":                  true,
	"vkEnumerateInstanceExtensionProperties": true,
	"vkEnumerateInstanceLayerProperties":     true,
	"vkEnumerateInstanceVersion":             true,
	"vkCreateInstance":                       true,
}

var deviceLevelHandles = map[string]bool{
	"VkDevice":        true,
	"VkQueue":         true,
	"VkCommandBuffer": true,
}

type param struct {
	typ, name string
}

type command struct {
	name       string
	returnType string
	params     []param
	level      commandLevel
}

func (c *command) joinedParams(from int) string {
	parts := make([]string, 0, len(c.params))
	for _, p := range c.params[from:] {
		parts = append(parts, p.typ+" "+p.name)
	}
	return strings.Join(parts, ", ")
}

// hasConvenience reports whether DispatchDevice gets a forwarding member
// function for c, which is the case for commands taking the device or a
// command buffer first.
func (c *command) hasConvenience() bool {
	if c.level != levelDevice || len(c.params) == 0 {
		return false
	}
	first := c.params[0].typ
	return first == "VkDevice" || first == "VkCommandBuffer"
}

func (g *Generator) GenCmd(c *def.CommandInfo, name string) {
	if c.Proto == nil {
		// unresolved alias, already reported by the registry
		return
	}
	st := g.opts.Style

	cmd := &command{
		name:       name,
		returnType: st.convertTypeConst(stripStruct(c.ReturnType())),
		level:      levelInstance,
	}
	if c.Proto.IsStructQualified() {
		g.recordOpaque(c.Proto.TypeName)
	}
	for _, p := range c.Params {
		if p.IsStructQualified() {
			g.recordOpaque(p.TypeName)
		}
		cmd.params = append(cmd.params, param{typ: st.paramType(p), name: g.exc.RenameIdentifier(p.Name)})
	}

	switch {
	case globalLevelNames[name]:
		cmd.level = levelGlobal
	case name != "vkGetDeviceProcAddr" && len(c.Params) > 0 && deviceLevelHandles[c.Params[0].CType()]:
		cmd.level = levelDevice
	}

	if g.current == nil {
		return
	}
	g.current.commands = append(g.current.commands, cmd)
	g.Stats.Commands++
}

// pfnAlias is the function pointer type declared for every command.
func (g *Generator) pfnAlias(c *command) string {
	return fmt.Sprintf("alias PFN_%s = %s function%s;", c.name, c.returnType, g.opts.Style.paren(c.joinedParams(0)))
}

// prototype is the static declaration of c.
func (g *Generator) prototype(c *command) string {
	return fmt.Sprintf("%s %s%s;", c.returnType, c.name, g.opts.Style.paren(c.joinedParams(0)))
}

// convenience renders the DispatchDevice member function forwarding to c
// with the bound device or command buffer.
func (g *Generator) convenience(c *command) string {
	st := g.opts.Style
	handle := "this.device"
	if c.params[0].typ == "VkCommandBuffer" {
		handle = "this.commandBuffer"
	}
	args := []string{handle}
	for _, p := range c.params[1:] {
		args = append(args, p.name)
	}
	ret := ""
	if c.returnType != "void" {
		ret = "return "
	}
	return fmt.Sprintf("%s %s%s {\n\t%s%s%s;\n}",
		c.returnType, strings.TrimPrefix(c.name, "vk"), st.paren(c.joinedParams(1)),
		ret, c.name, st.paren(strings.Join(args, ", ")))
}
