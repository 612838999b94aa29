package dgen

import (
	"github.com/bbredesen/vk-dgen/def"
	"github.com/bbredesen/vk-dgen/feat"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type section int

const (
	secInclude section = iota
	secDefine
	secBasetype
	secHandle
	secEnum
	secGroup
	secBitmask
	secFuncpointer
	secStruct

	numSections
)

// featureBlock collects everything generated for one interface. Each
// section entry is one declaration, possibly spanning several lines.
type featureBlock struct {
	name        string
	version     string
	imports     []string
	emit        bool
	isExtension bool

	sections [numSections][]string
	opaque   []string

	commands []*command
}

func (b *featureBlock) isEmpty() bool {
	for _, s := range b.sections {
		if len(s) > 0 {
			return false
		}
	}
	return len(b.opaque) == 0 && len(b.commands) == 0
}

// Generator writes D bindings. It implements feat.Generator: declarations
// are collected per interface and the files are rendered and written by
// EndFile.
type Generator struct {
	opts Options
	exc  *Exceptions
	reg  *def.Registry

	headerVersion string

	blocks  []*featureBlock
	current *featureBlock

	// opaque declarations written so far, per version identifier
	opaqueDeclared map[opaqueKey]bool

	// Written lists the files created by EndFile.
	Written []string
	Stats   Stats
}

type Stats struct {
	Features, Types, Structs, Groups, Enums, Commands int
}

var _ feat.Generator = (*Generator)(nil)

func NewGenerator(reg *def.Registry, opts Options, exc *Exceptions) (*Generator, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	if exc == nil {
		exc = &Exceptions{}
	}
	return &Generator{
		opts:           opts,
		exc:            exc,
		reg:            reg,
		opaqueDeclared: make(map[opaqueKey]bool),
	}, nil
}

func (g *Generator) Options() Options { return g.opts }

func (g *Generator) BeginFile() error {
	g.blocks = nil
	g.current = nil
	g.headerVersion = ""
	g.opaqueDeclared = make(map[opaqueKey]bool)
	g.Written = nil
	g.Stats = Stats{}
	return nil
}

func (g *Generator) BeginFeature(f *feat.Feature, emit bool) {
	blk := &featureBlock{name: f.Name(), emit: emit, isExtension: f.IsExtension()}

	if f.IsExtension() {
		if p := f.Platform(); p != nil {
			blk.version = p.Version()
			blk.imports = append(blk.imports, p.DImports...)
		}
		if blk.version == "" {
			blk.version = f.Protect()
		}
		blk.imports = appendUnique(blk.imports, g.exc.ExtensionImports[f.Name()]...)
	}

	g.current = blk
	g.Stats.Features++
}

func (g *Generator) EndFeature() {
	if g.current == nil {
		return
	}
	if g.current.emit && !g.current.isEmpty() {
		g.blocks = append(g.blocks, g.current)
	} else {
		logrus.WithField("feature", g.current.name).Debug("Nothing generated for interface")
	}
	g.current = nil
}

func (g *Generator) appendSection(sec section, entry string) {
	if g.current == nil {
		logrus.WithField("entry", entry).Warn("Declaration generated outside of a feature, dropping")
		return
	}
	g.current.sections[sec] = append(g.current.sections[sec], entry)
}

type opaqueKey struct {
	version, name string
}

// recordOpaque notes a struct-qualified platform type so a declaration is
// written in the current block. A name is declared once per version
// identifier; a declaration outside any version block serves every block.
func (g *Generator) recordOpaque(name string) {
	if g.current == nil {
		return
	}
	key := opaqueKey{g.current.version, name}
	if g.opaqueDeclared[opaqueKey{name: name}] || g.opaqueDeclared[key] {
		return
	}
	if t := g.reg.Types[name]; t != nil && (t.Category == def.CatStruct || t.Category == def.CatUnion) {
		return
	}
	g.opaqueDeclared[key] = true

	decl, listed := g.exc.Opaque[name]
	switch {
	case decl == opaqueSkip:
		return
	case !listed || decl == "":
		decl = "struct " + name + ";"
	}
	g.current.opaque = append(g.current.opaque, decl)
}

func appendUnique(list []string, items ...string) []string {
	for _, it := range items {
		if !slices.Contains(list, it) {
			list = append(list, it)
		}
	}
	return list
}
