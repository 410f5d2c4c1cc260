// flags.go parses the command line.
//
// Go Pattern: spf13/pflag is a drop-in replacement for the standard
// flag package with GNU-style --long and -s short flags. Importing it
// under the name "flag" keeps the call sites familiar.
package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Shimizu-Technology/pdf-replace/internal/services/replace"
)

const usageLine = "Usage: pdfreplace <input.pdf> [output.pdf]"

// errUsage marks argument problems that have already been reported on
// errOut; main exits 1 without printing anything further.
var errUsage = errors.New("invalid arguments")

// options holds everything parsed from the command line.
type options struct {
	Search  string
	Replace string
	Quiet   bool
	Input   string
	Output  string
}

// parseArgs reads flags and positionals from args (argv without the
// program name). All usage output lands on errOut.
func parseArgs(args []string, errOut io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pdfreplace", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintln(errOut, usageLine)
		fmt.Fprintln(errOut, "Flags:")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVarP(&opts.Search, "search", "s", replace.DefaultSearch, "text to find")
	fs.StringVarP(&opts.Replace, "replace", "r", replace.DefaultReplace, "replacement text")
	fs.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress progress output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		fmt.Fprintln(errOut, usageLine)
		return nil, errUsage
	}
	opts.Input = rest[0]
	if len(rest) == 2 {
		opts.Output = rest[1]
	} else {
		opts.Output = defaultOutput(opts.Input)
	}
	return opts, nil
}

// defaultOutput derives the output path when none is given:
// "contract.pdf" becomes "contract_modified.pdf", keeping the input's
// directory and extension.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_modified" + ext
}
