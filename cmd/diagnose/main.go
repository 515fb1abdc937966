// Command adfdiag inspects ADF node trees stored in HDF5 files.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/robert-malhotra/go-adfh/adfh"
)

type globalFlags struct {
	config  string
	debug   bool
	noColor bool
}

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	typeColor  = color.New(color.FgYellow)
	linkColor  = color.New(color.FgMagenta)
	errorColor = color.New(color.FgRed, color.Bold)
)

func main() {
	globals := globalFlags{}

	app := cli.NewApp()
	app.Name = "adfdiag"
	app.Usage = "inspect ADF node trees in HDF5 files"
	app.Version = adfh.LibraryVersion()
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Usage:       "session configuration `FILE` (YAML)",
			Destination: &globals.config,
		},
		cli.BoolFlag{
			Name:        "debug, d",
			Usage:       "log engine activity",
			Destination: &globals.debug,
		},
		cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable colored output",
			Destination: &globals.noColor,
		},
	}
	app.Before = func(c *cli.Context) error {
		if globals.noColor {
			color.NoColor = true
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "tree",
			Usage:     "print the node tree",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "depth",
					Value: 0,
					Usage: "stop after `N` levels (0 for no limit)",
				},
			},
			Action: func(c *cli.Context) error {
				return withFile(c, globals, func(e *env) error {
					return runTree(e, c.Int("depth"))
				})
			},
		},
		{
			Name:      "info",
			Usage:     "describe one node",
			ArgsUsage: "FILE PATH",
			Action: func(c *cli.Context) error {
				return withFile(c, globals, func(e *env) error {
					return runInfo(e, c.Args().Get(1))
				})
			},
		},
		{
			Name:      "cat",
			Usage:     "print the data of a node",
			ArgsUsage: "FILE PATH",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "limit",
					Value: 100,
					Usage: "print at most `N` values (0 for all)",
				},
			},
			Action: func(c *cli.Context) error {
				return withFile(c, globals, func(e *env) error {
					return runCat(e, c.Args().Get(1), c.Int("limit"))
				})
			},
		},
		{
			Name:      "version",
			Usage:     "print database version and format",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				return withFile(c, globals, runVersion)
			},
		},
		{
			Name:      "raw",
			Usage:     "dump the container objects, hidden entries included",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errors.New("missing FILE argument")
				}
				cfg, err := loadConfig(globals)
				if err != nil {
					return err
				}
				return runRaw(c.Args().First(), newLogger(cfg))
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what a command gets to work with: a session and the root of the
// file it opened read-only.
type env struct {
	s    *adfh.Session
	root *adfh.Node
	path string
}

func loadConfig(globals globalFlags) (adfh.Config, error) {
	cfg := adfh.DefaultConfig()
	if globals.config != "" {
		var err error
		if cfg, err = adfh.LoadConfig(globals.config); err != nil {
			return cfg, err
		}
	}
	if globals.debug {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	return cfg, nil
}

func newLogger(cfg adfh.Config) *logrus.Logger {
	logger := cfg.NewLogger()
	logger.SetOutput(os.Stderr)
	return logger
}

func newSession(globals globalFlags) (*adfh.Session, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, err
	}
	return adfh.NewSession(adfh.WithConfig(cfg), adfh.WithLogger(newLogger(cfg)))
}

func withFile(c *cli.Context, globals globalFlags, run func(*env) error) error {
	if c.NArg() < 1 {
		return errors.New("missing FILE argument")
	}
	path := c.Args().First()
	s, err := newSession(globals)
	if err != nil {
		return err
	}
	root, err := s.DatabaseOpen(path, adfh.ModeReadOnly, "")
	if err != nil {
		return err
	}
	defer s.DatabaseClose(root)
	return run(&env{s: s, root: root, path: path})
}

func out(format string, args ...interface{}) {
	fmt.Fprintf(color.Output, format, args...)
}
