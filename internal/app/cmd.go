package app

import (
	"errors"

	"github.com/spf13/cobra"
)

var version = "dev"

// NewCommand returns the root command of the cedit binary.
func NewCommand() *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:           "cedit [file]",
		Short:         "A character-grid text editor",
		Long:          `cedit edits a text file in the terminal. With --diff it shows the file against its committed version.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			if opts.Diff && opts.Path == "" {
				return errors.New("--diff needs a file")
			}
			if opts.Diff && opts.Example {
				return errors.New("--diff and --example cannot be combined")
			}
			a := New(opts)
			a.out = cmd.OutOrStdout()
			return a.Run()
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.Diff, "diff", "d", false, "show the file against its version at git HEAD")
	f.BoolVar(&opts.Example, "example", false, "open the built-in diff example")
	f.BoolVarP(&opts.Print, "print", "p", false, "paint one screen to stdout and exit")
	f.IntVar(&opts.Width, "width", 80, "screen width for --print")
	f.IntVar(&opts.Height, "height", 24, "screen height for --print")
	f.BoolVar(&opts.Debug, "debug", false, "log debug messages")
	f.StringVar(&opts.Codec, "codec", "", "character set of the file (default from config)")
	f.BoolVarP(&opts.ReadOnly, "read-only", "r", false, "open the document read-only")
	f.BoolVar(&opts.Terminal, "terminal", false, "append typed input to the last line")
	f.StringVar(&opts.SessionPath, "session", "", "session file (default $XDG_STATE_HOME/cedit/session.json)")
	return cmd
}
