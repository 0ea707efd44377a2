package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pravda/cli/cmd"
	"github.com/ardnew/pravda/pkg"
)

// CLI is the top-level command-line interface for pravda.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Prelude []string `help:"Program file(s) run into the session first, or '-' for stdin" short:"p" type:"existingfile"`
	Output  string   `default:"pvd" enum:"pvd,json,yaml"                                      help:"Result format (${enum})" short:"o"`
	Indent  int      `default:"0"   help:"Indent width for json and yaml results (0 for compact)"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run a script or a one-liner, or start the REPL"`
	Repl    cmd.Repl    `cmd:""                    help:"Start the interactive REPL"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format program statements"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version"`
}

// Run executes the pravda CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before parsing, so parse errors are logged as
	// the flags ask.
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
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
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
	ctx = cmd.WithSourceFiles(ctx, cli.Prelude)
	ctx = cmd.WithOutput(ctx, cmd.Output{Format: cli.Output, Indent: cli.Indent})
	ctx = cmd.WithArgv(ctx, append([]string{pkg.Name}, args...))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
