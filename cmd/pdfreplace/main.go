// Command pdfreplace rewrites one literal string in a PDF from the
// terminal: each occurrence is painted over with the sampled page
// background and the replacement drawn in the matched size, color and
// weight.
//
//	pdfreplace contract.pdf
//	pdfreplace --search "Premium" --replace "Standard" contract.pdf out.pdf
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	flag "github.com/spf13/pflag"

	"github.com/Shimizu-Technology/pdf-replace/internal/services/replace"
)

func main() {
	// The replacer walks deeply nested structures from untrusted files;
	// a panic on a malformed document should still leave a readable
	// stack instead of a bare crash.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "✗ Error: %v\n", r)
			os.Stderr.Write(debug.Stack())
			os.Exit(1)
		}
	}()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		// pflag already reported flag errors; positional problems
		// printed the usage line.
		return errUsage
	}

	if _, err := os.Stat(opts.Input); err != nil {
		return fmt.Errorf("Input file '%s' not found", opts.Input)
	}

	if !opts.Quiet {
		fmt.Fprintf(stdout, "Processing: %s\n", opts.Input)
	}

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return err
	}

	svc := replace.New()
	if !opts.Quiet {
		svc.Report = func(format string, args ...any) {
			fmt.Fprintf(stdout, format+"\n", args...)
		}
	}

	result, err := svc.Replace(data, opts.Search, opts.Replace)
	if err != nil {
		return err
	}

	// Only a fully successful replacement reaches the filesystem; an
	// abort above leaves no partial output behind.
	if err := os.WriteFile(opts.Output, result.Output, 0o644); err != nil {
		return err
	}

	if !opts.Quiet {
		fmt.Fprintf(stdout, "\n✓ Successfully replaced %d occurrence(s) of '%s' with '%s'\n",
			result.Count, opts.Search, opts.Replace)
		fmt.Fprintf(stdout, "✓ Output saved to: %s\n", opts.Output)
	}
	return nil
}
