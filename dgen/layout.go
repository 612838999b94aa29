package dgen

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// fileBuffers holds rendered file contents keyed by path relative to the
// package directory, in write order.
type fileBuffers struct {
	names []string
	bufs  map[string]*bytes.Buffer
}

func (f *fileBuffers) get(name string) *bytes.Buffer {
	if f.bufs == nil {
		f.bufs = make(map[string]*bytes.Buffer)
	}
	if b := f.bufs[name]; b != nil {
		return b
	}
	b := new(bytes.Buffer)
	f.bufs[name] = b
	f.names = append(f.names, name)
	return b
}

// EndFile renders the modules of the configured layout and writes them into
// OutDir/<package path>.
func (g *Generator) EndFile() error {
	if g.current != nil {
		g.EndFeature()
	}

	files, err := g.render()
	if err != nil {
		return err
	}

	dir := filepath.Join(g.opts.OutDir, filepath.FromSlash(strings.ReplaceAll(g.opts.PackagePrefix, ".", "/")))
	for _, name := range files.names {
		path := filepath.Join(dir, name)
		if err := writeFileAtomic(path, files.bufs[name].Bytes()); err != nil {
			return err
		}
		g.Written = append(g.Written, path)
		logrus.WithField("file", path).Debug("Wrote module")
	}
	return nil
}

func (g *Generator) render() (*fileBuffers, error) {
	data := g.fileData()
	files := &fileBuffers{}

	var modules []string
	switch g.opts.Layout {
	case LayoutDispatch:
		modules = []string{"package.dispatch", "types", "functions"}
	case LayoutSplit:
		data.Gated = true
		modules = []string{"package.split", "types", "statfun", "dynload"}
	case LayoutDynload:
		modules = []string{"package.dynload", "types", "dynload"}
	default:
		return nil, errors.Errorf("unsupported layout %v", g.opts.Layout)
	}

	for _, m := range modules {
		name, _, _ := strings.Cut(m, ".")
		if err := templates.ExecuteTemplate(files.get(name+".d"), m, data); err != nil {
			return nil, errors.Wrapf(err, "render %s.d", name)
		}
	}
	return files, nil
}

func (g *Generator) fileData() *fileData {
	st := g.opts.Style
	all := func(*command) bool { return true }
	level := func(l commandLevel) func(*command) bool {
		return func(c *command) bool { return c.level == l }
	}
	loadVia := func(getter, handle string) func(*command) string {
		return func(c *command) string {
			if st.Padded {
				return fmt.Sprintf("%s = cast( typeof( %s )) %s( %s, \"%s\" );", c.name, c.name, getter, handle, c.name)
			}
			return fmt.Sprintf("%s = cast(typeof(%s))%s(%s, \"%s\");", c.name, c.name, getter, handle, c.name)
		}
	}
	pfnVar := func(c *command) string { return fmt.Sprintf("PFN_%s %s;", c.name, c.name) }

	data := &fileData{
		Package:       g.opts.PackagePrefix,
		Name:          g.opts.NamePrefix,
		NameUpper:     g.opts.nameUpper(),
		HeaderVersion: g.headerVersion,
		Body:          g.renderTypesBody(),
	}

	data.Aliases = g.renderCommandBlocks("\t", all, g.pfnAlias)
	data.Globals = g.renderCommandBlocks("\t", all, pfnVar)

	data.GlobalLoads = g.renderCommandBlocks("\t", func(c *command) bool {
		return c.level == levelGlobal && c.name != "vkGetInstanceProcAddr"
	}, loadVia("vkGetInstanceProcAddr", "null"))
	data.InstanceLoads = g.renderCommandBlocks("\t", level(levelInstance), loadVia("vkGetInstanceProcAddr", "instance"))
	data.DeviceLoadsFromInstance = g.renderCommandBlocks("\t", level(levelDevice), loadVia("vkGetInstanceProcAddr", "instance"))
	data.DeviceLoadsFromDevice = g.renderCommandBlocks("\t", level(levelDevice), loadVia("vkGetDeviceProcAddr", "device"))
	data.DispatchLoads = g.renderCommandBlocks("\t\t", level(levelDevice), loadVia("vkGetDeviceProcAddr", "device"))
	data.Convenience = g.renderCommandBlocks("\t", (*command).hasConvenience, g.convenience)
	data.DispatchMembers = g.renderCommandBlocks("\t", level(levelDevice), pfnVar)

	data.Prototypes = g.renderCommandBlocks("\t", all, g.prototype)
	// extension entry points are not exported by the loader library, they are
	// fetched through the proc addr functions once an instance or device exists
	core, ext := g.splitBlocks()
	data.Binds = g.renderBlocks(core, "\t\t", all, func(c *command) string {
		if st.Padded {
			return fmt.Sprintf("bindFunc( cast( void** )&%s, \"%s\" );", c.name, c.name)
		}
		return fmt.Sprintf("bindFunc(cast(void**)&%s, \"%s\");", c.name, c.name)
	})
	data.ExtInstanceLoads = g.renderBlocks(ext, "\t", func(c *command) bool {
		return c.level != levelDevice
	}, loadVia("vkGetInstanceProcAddr", "instance"))
	data.ExtDeviceLoads = g.renderBlocks(ext, "\t", level(levelDevice), loadVia("vkGetDeviceProcAddr", "device"))

	return data
}

func (b *featureBlock) hasTypes() bool {
	for _, s := range b.sections {
		if len(s) > 0 {
			return true
		}
	}
	return len(b.opaque) > 0 || len(b.imports) > 0
}

// renderTypesBody writes the per interface declarations of types.d.
// Sections keep a fixed order; platform interfaces are wrapped in a version
// block that also carries their imports.
func (g *Generator) renderTypesBody() string {
	st := g.opts.Style
	b := &strings.Builder{}

	for _, blk := range g.blocks {
		if !blk.hasTypes() {
			continue
		}
		fmt.Fprintf(b, "\n// %s\n", blk.name)
		indent := ""
		if blk.version != "" {
			fmt.Fprintf(b, "version%s {\n", st.paren(blk.version))
			indent = "\t"
		}
		for _, imp := range blk.imports {
			fmt.Fprintf(b, "%spublic import %s;\n", indent, imp)
		}

		first := len(blk.imports) == 0
		for sec := section(0); sec < numSections; sec++ {
			entries := blk.sections[sec]
			if sec == secStruct && len(blk.opaque) > 0 {
				if !first {
					b.WriteString("\n")
				}
				for _, o := range blk.opaque {
					writeIndented(b, indent, o)
				}
				first = false
			}
			if len(entries) == 0 {
				continue
			}
			if !first && !strings.HasPrefix(entries[0], "\n") {
				b.WriteString("\n")
			}
			first = false
			for _, e := range entries {
				writeIndented(b, indent, e)
			}
		}

		if blk.version != "" {
			b.WriteString("}\n")
		}
	}
	return b.String()
}

// renderCommandBlocks renders line for every command keep accepts, grouped
// under a comment per interface and wrapped in the interface's version block.
func (g *Generator) renderCommandBlocks(indent string, keep func(*command) bool, line func(*command) string) string {
	return g.renderBlocks(g.blocks, indent, keep, line)
}

// splitBlocks separates core feature blocks from extension and platform blocks.
func (g *Generator) splitBlocks() (core, ext []*featureBlock) {
	for _, blk := range g.blocks {
		if blk.version == "" && !blk.isExtension {
			core = append(core, blk)
		} else {
			ext = append(ext, blk)
		}
	}
	return core, ext
}

func (g *Generator) renderBlocks(blocks []*featureBlock, indent string, keep func(*command) bool, line func(*command) string) string {
	st := g.opts.Style
	b := &strings.Builder{}

	for _, blk := range blocks {
		var lines []string
		for _, c := range blk.commands {
			if keep(c) {
				lines = append(lines, line(c))
			}
		}
		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(b, "\n%s// %s\n", indent, blk.name)
		inner := indent
		if blk.version != "" {
			fmt.Fprintf(b, "%sversion%s {\n", indent, st.paren(blk.version))
			inner += "\t"
		}
		for _, l := range lines {
			writeIndented(b, inner, l)
		}
		if blk.version != "" {
			fmt.Fprintf(b, "%s}\n", indent)
		}
	}
	return b.String()
}

func writeIndented(b *strings.Builder, indent, text string) {
	for _, l := range strings.Split(text, "\n") {
		if l != "" {
			b.WriteString(indent)
			b.WriteString(l)
		}
		b.WriteString("\n")
	}
}
