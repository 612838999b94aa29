package main

import (
	_ "embed"
	"flag"
	"os"

	"github.com/bbredesen/vk-dgen/def"
	"github.com/bbredesen/vk-dgen/dgen"
	"github.com/bbredesen/vk-dgen/feat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

//go:embed exceptions.json
var defaultExceptions []byte

type config struct {
	inFileName, outDirName string
	exceptionsFileName     string

	apiName                              string
	defaultExtensions, addExtensions     string
	removeExtensions, emitVersions       string
	packagePrefix, namePrefix, layoutArg string
	styleArg                             string

	// style overrides, applied only when set on the command line
	styleOverrides map[string]bool
}

var (
	cfg     config
	verbose bool

	styleFlags = map[string]*bool{}
)

func init() {
	flag.StringVar(&cfg.inFileName, "in", "vk.xml", "File to use as the Vulkan registry")
	flag.StringVar(&cfg.outDirName, "out", "output/", "Where to save the generated D modules")
	flag.StringVar(&cfg.exceptionsFileName, "exceptions", "", "Exceptions file to use instead of the embedded exceptions.json")

	flag.StringVar(&cfg.apiName, "api", "vulkan", "API name used to filter registry elements")
	flag.StringVar(&cfg.defaultExtensions, "default-extensions", "vulkan", "Include extensions whose supported attribute lists this API")
	flag.StringVar(&cfg.addExtensions, "extensions", "", "Regular expression of additional extension names to include")
	flag.StringVar(&cfg.removeExtensions, "remove-extensions", "", "Regular expression of extension names to exclude")
	flag.StringVar(&cfg.emitVersions, "emit-versions", "", "Regular expression of core feature names to emit (default all)")

	flag.StringVar(&cfg.packagePrefix, "package", "", "D package of the generated modules (default: snake case of -name-prefix)")
	flag.StringVar(&cfg.namePrefix, "name-prefix", "Erupted", "Prefix of loader names and version identifiers")
	flag.StringVar(&cfg.layoutArg, "layout", "dispatch", "Module layout: dispatch, split or dynload")
	flag.StringVar(&cfg.styleArg, "style", "erupted", "Formatting preset: erupted or compact")

	styleFlags["padded"] = flag.Bool("padded", false, "Pad parentheses and brackets with spaces (overrides -style)")
	styleFlags["align"] = flag.Bool("align", false, "Align struct member names (overrides -style)")
	styleFlags["range-padding"] = flag.Bool("range-padding", false, "Add _BEGIN_RANGE, _END_RANGE and _RANGE_SIZE enum members (overrides -style)")
	styleFlags["struct-defaults"] = flag.Bool("struct-defaults", false, "Initialize members with registry default values (overrides -style)")
	styleFlags["global-enums"] = flag.Bool("global-enums", false, "Repeat enum members as module level constants (overrides -style)")

	flag.BoolVar(&verbose, "v", false, "Verbose logging")
}

func main() {
	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg.styleOverrides = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		if p, found := styleFlags[f.Name]; found {
			cfg.styleOverrides[f.Name] = *p
		}
	})

	if err := run(cfg); err != nil {
		logrus.WithError(err).Fatal("Generation failed")
	}
}

func run(cfg config) error {
	exceptions, err := readExceptions(cfg.exceptionsFileName)
	if err != nil {
		return err
	}

	opts, err := cfg.options()
	if err != nil {
		return err
	}
	sel, err := cfg.selection()
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.inFileName)
	if err != nil {
		return errors.Wrap(err, "could not open registry")
	}
	defer f.Close()

	logrus.WithField("file", cfg.inFileName).Info("Reading registry")
	reg, err := def.ReadRegistry(f, cfg.apiName)
	if err != nil {
		return err
	}
	catalog := feat.ReadCatalog(reg, exceptions)

	gen, err := dgen.NewGenerator(reg, opts, dgen.ReadExceptionsFromJSON(exceptions))
	if err != nil {
		return err
	}
	if err := feat.Traverse(reg, catalog, sel, gen); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"features": gen.Stats.Features,
		"types":    gen.Stats.Types,
		"structs":  gen.Stats.Structs,
		"groups":   gen.Stats.Groups,
		"enums":    gen.Stats.Enums,
		"commands": gen.Stats.Commands,
		"files":    len(gen.Written),
		"layout":   opts.Layout,
	}).Info("Generated D bindings")
	return nil
}

func readExceptions(fileName string) (gjson.Result, error) {
	data := defaultExceptions
	if fileName != "" {
		var err error
		if data, err = os.ReadFile(fileName); err != nil {
			return gjson.Result{}, errors.Wrap(err, "could not read exceptions file")
		}
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errors.Errorf("exceptions file %q is not valid JSON", fileName)
	}
	return gjson.ParseBytes(data), nil
}

func (c config) options() (dgen.Options, error) {
	layout, err := dgen.ParseLayout(c.layoutArg)
	if err != nil {
		return dgen.Options{}, err
	}
	style, err := dgen.ParseStyle(c.styleArg)
	if err != nil {
		return dgen.Options{}, err
	}
	for name, v := range c.styleOverrides {
		switch name {
		case "padded":
			style.Padded = v
		case "align":
			style.AlignMembers = v
		case "range-padding":
			style.RangePadding = v
		case "struct-defaults":
			style.StructDefaults = v
		case "global-enums":
			style.GlobalEnums = v
		}
	}
	return dgen.Options{
		OutDir:        c.outDirName,
		PackagePrefix: c.packagePrefix,
		NamePrefix:    c.namePrefix,
		Layout:        layout,
		Style:         style,
	}, nil
}

func (c config) selection() (*feat.Selection, error) {
	sel := &feat.Selection{API: c.apiName, DefaultExtensions: c.defaultExtensions}
	var err error
	if sel.AddExtensions, err = feat.CompileNamePattern(c.addExtensions); err != nil {
		return nil, err
	}
	if sel.RemoveExtensions, err = feat.CompileNamePattern(c.removeExtensions); err != nil {
		return nil, err
	}
	if sel.EmitFeatures, err = feat.CompileNamePattern(c.emitVersions); err != nil {
		return nil, err
	}
	return sel, nil
}
