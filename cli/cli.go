package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	All         bool
	Print       bool
	Buffer      bool
	Undo        bool
	Redo        bool
	NoAnimation bool
	LookupDirs  []string
	Extensions  []string
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	// Define flags
	pflag.BoolVarP(&cfg.All, "all", "a", false, "Apply every change block without interactive review.")
	pflag.BoolVarP(&cfg.Print, "print", "p", false, "Print the computed diffs to stdout without applying anything.")
	pflag.BoolVarP(&cfg.Buffer, "buffer", "b", false, "Apply into the buffers of a running Neovim instance instead of writing to disk.")
	pflag.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the loading spinner.")
	pflag.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Change directory to look for files (default: current directory).")
	pflag.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{}, "Only review files with these extensions (e.g., 'py', 'js').")

	// Mutually exclusive history group
	pflag.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last applied run.")
	pflag.BoolVarP(&cfg.Redo, "redo", "r", false, "Redo the last undone run.")

	pflag.Usage = func() {
		fmt.Println("Usage: sift [flags]")
		fmt.Println("\nParse proposed file contents from stdin (pipe) or clipboard and review the changes block by block.")
		fmt.Println("\nExample: pbpaste | sift -e py")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	// Validate mutually exclusive flags
	if cfg.Undo && cfg.Redo {
		return nil, fmt.Errorf("error: --undo and --redo are mutually exclusive")
	}
	if cfg.All && cfg.Print {
		return nil, fmt.Errorf("error: --all and --print are mutually exclusive")
	}
	if cfg.Buffer && (cfg.Undo || cfg.Redo) {
		return nil, fmt.Errorf("error: --buffer cannot be combined with --undo/--redo")
	}

	// Normalize extensions
	for i, ext := range cfg.Extensions {
		if len(ext) > 0 && ext[0] != '.' {
			cfg.Extensions[i] = "." + ext
		}
	}

	return cfg, nil
}
