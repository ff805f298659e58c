package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jimyag/nd-inventory/pkg/environment"
	"github.com/jimyag/nd-inventory/pkg/errors"
	"github.com/jimyag/nd-inventory/pkg/inventory"
	"github.com/jimyag/nd-inventory/pkg/logger"
	"github.com/jimyag/nd-inventory/pkg/output"
)

var Version string

func main() {
	diag := logger.NewAnsibleLogger(os.Stderr, false)
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		diag.Error(errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage 为缺失或无效的环境变量附加提示
func errorMessage(err error) string {
	if ce, ok := errors.AsConfigurationError(err); ok && ce.Variable != "" {
		return fmt.Sprintf("%s (run with --describe to list the supported variables)", err)
	}
	return err.Error()
}

// options 命令行参数
type options struct {
	host      string
	listHosts string
	graph     bool
	format   string
	envFiles []string
	profiles string
	describe bool
	verbose  bool
	quiet    bool
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	var opts options

	return &cli.Command{
		Name:      "nd-inventory",
		Usage:     "Ansible dynamic inventory for the DCNM/NDFC integration tests, built from ND_* environment variables",
		Version:   Version,
		// stdout 只输出 inventory 文档，帮助和版本信息写到 stderr
		Writer:    stderr,
		ErrWriter: stderr,
		OnUsageError: func(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
			return err
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "list",
				Usage: "Print the whole inventory (default)",
			},
			&cli.StringFlag{
				Name:        "host",
				Usage:       "Print the variables of a single host",
				Destination: &opts.host,
			},
			&cli.StringFlag{
				Name:        "list-hosts",
				Usage:       "Print the hosts of a group and its children, one per line",
				Destination: &opts.listHosts,
			},
			&cli.BoolFlag{
				Name:        "graph",
				Usage:       "Print the group tree like ansible-inventory --graph",
				Destination: &opts.graph,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format of --list: json, yaml or ini",
				Value:       string(output.FormatJSON),
				Sources:     cli.EnvVars("ND_INVENTORY_FORMAT"),
				Destination: &opts.format,
			},
			&cli.StringSliceFlag{
				Name:        "env-file",
				Aliases:     []string{"e"},
				Usage:       "dotenv file with ND_* variables; exported variables take precedence",
				Sources:     cli.EnvVars("ND_INVENTORY_ENV_FILE"),
				Destination: &opts.envFiles,
			},
			&cli.StringFlag{
				Name:        "profiles",
				Usage:       "YAML file with additional role profiles",
				Sources:     cli.EnvVars("ND_INVENTORY_PROFILES"),
				Destination: &opts.profiles,
			},
			&cli.BoolFlag{
				Name:        "describe",
				Usage:       "List the supported environment variables",
				Destination: &opts.describe,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "Debug logging on stderr",
				Sources:     cli.EnvVars("ND_INVENTORY_DEBUG"),
				Destination: &opts.verbose,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "Suppress [WARNING] messages",
				Sources:     cli.EnvVars("ND_INVENTORY_QUIET"),
				Destination: &opts.quiet,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("list") && opts.host != "" {
				return fmt.Errorf("--list and --host are mutually exclusive")
			}
			return run(stdout, stderr, opts)
		},
	}
}

func run(stdout, stderr io.Writer, opts options) error {
	level := logger.WarnLevel
	if opts.verbose {
		level = logger.DebugLevel
	}
	logger.Init(&logger.Config{
		Level:  level,
		Output: stderr,
		Pretty: true,
	})

	if opts.describe {
		return output.WriteVariables(stdout, inventory.Variables())
	}

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	profiles := inventory.DefaultProfiles()
	if opts.profiles != "" {
		if err := profiles.LoadFile(opts.profiles); err != nil {
			return err
		}
		logger.Debugf("Loaded role profiles from %s", opts.profiles)
	}

	snap, err := environment.Load(opts.envFiles...)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d environment variables", snap.Len())

	diag := logger.NewAnsibleLogger(stderr, opts.quiet)
	doc, err := inventory.NewBuilder(profiles).WithWarner(diag).Build(snap)
	if err != nil {
		return err
	}

	// 先渲染到缓冲区，失败时 stdout 上不会留下不完整的文档
	var buf bytes.Buffer
	switch {
	case opts.host != "":
		err = output.WriteHost(&buf, doc, opts.host)
	case opts.listHosts != "":
		err = output.WriteHosts(&buf, doc, opts.listHosts)
	case opts.graph:
		err = output.WriteGraph(&buf, doc, "all")
	default:
		err = output.Write(&buf, doc, format)
	}
	if err != nil {
		return err
	}

	_, err = buf.WriteTo(stdout)
	return err
}
