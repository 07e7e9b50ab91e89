package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/reo/cli/cmd"
	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/pkg"
)

// CLI is the top-level command-line interface for reo.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`
	Path    []string         `help:"Directory to search for named scripts (repeatable, searched before ${pathEnv})." placeholder:"DIR" type:"path"`

	Init  cmd.Init  `cmd:"" help:"Write the current settings to a configuration file."`
	Check cmd.Check `cmd:"" help:"Parse and bind scripts without running them."`
	Fmt   cmd.Fmt   `cmd:"" help:"Print a script in canonical or structured form."`
	Repl  cmd.Repl  `cmd:"" help:"Start an interactive prompt."`

	Run cmd.Run `cmd:"" default:"withargs" help:"Run a script."`
}

// files names the configuration files and runtime directories used by a
// single invocation.
type files struct {
	script string // Reo configuration script
	yaml   string // YAML configuration
	cache  string // history and profiles
}

// Run executes the reo CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	return run(ctx, exit, files{
		script: configPath(baseConfig + pkg.Ext),
		yaml:   configPath(baseConfig + ".yaml"),
		cache:  cacheDir(),
	}, args...)
}

func run(
	ctx context.Context,
	exit func(code int),
	f files,
	args ...string,
) error {
	var cli CLI

	vars := kong.Vars{
		"version":            strings.TrimSpace(pkg.Version),
		"pathEnv":            pkg.EnvVar("path"),
		"maxDepth":           strconv.Itoa(eval.DefaultMaxDepth),
		cmd.ConfigIdentifier: f.script,
		cmd.CacheIdentifier:  f.cache,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that messages logged during parsing
	// honor them regardless of their position on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadYAML(ctx), f.yaml),
		kong.Configuration(loadScript(ctx), f.script),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Path))

	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
