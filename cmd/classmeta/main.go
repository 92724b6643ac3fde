package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "classmeta",
		Usage:   "Inspect merged class hierarchy metadata of Java sources",
		Version: version,
		Description: `classmeta parses Java sources, resolves each class's supertypes and
merges the hierarchy so every class reports its inherited instance methods,
bean properties, declared methods and fields.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"CLASSMETA_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon, yaml (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the declaration cache",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log skipped files, unresolved supertypes and cycles to stderr",
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Analyze sources at a git revision instead of the working tree",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parse workers (0 = config value, or 2x NumCPU)",
			},
		},
		Commands: []*cli.Command{
			typesCmd(),
			propertiesCmd(),
			propertyCmd(),
			methodsCmd(),
			fieldsCmd(),
			ancestorsCmd(),
			initCmd(),
		},
	}
}

// classFlag is the required --class flag shared by the per-class commands.
func classFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "class",
		Aliases:  []string{"C"},
		Usage:    "Qualified, simple or nested (Outer.Inner) class name",
		Required: true,
	}
}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}
