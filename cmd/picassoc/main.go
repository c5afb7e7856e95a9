// Command picassoc assembles shader manifests into PICA200 shader binaries.
//
// Usage:
//
//	picassoc [options] <input>
//
// Examples:
//
//	picassoc shader.yaml                     # Assemble to stdout
//	picassoc -o shader.shbin shader.yaml     # Assemble to file
//	picassoc -validate -o out.shbin a.toml   # Validate before writing
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/shbin"
	"github.com/gogpu/shbin/manifest"
)

var (
	output   = flag.String("o", "", "output file (default: stdout)")
	validate = flag.Bool("validate", false, "validate the assembled programs")
	format   = flag.String("format", "", "input format: yaml or toml (default: from file extension)")
	verbose  = flag.Bool("v", false, "log container layout to stderr")
	version  = flag.Bool("version", false, "print version")
)

const picassocVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("picassoc version %s\n", picassocVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	inputPath := args[0]

	f := manifest.FormatFor(inputPath)
	switch *format {
	case "":
	case "yaml":
		f = manifest.FormatYAML
	case "toml":
		f = manifest.FormatTOML
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}

	opts := []shbin.Option{shbin.WithValidation(*validate)}
	if *verbose {
		opts = append(opts, shbin.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	// Failures are printed by the default error handler.
	asm := shbin.New(manifest.Frontend{Format: f}, opts...)
	data, err := asm.AssembleFile(inputPath)
	if err != nil {
		os.Exit(1)
	}

	if *output != "" {
		err = os.WriteFile(*output, data, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully assembled %s to %s (%d bytes)\n", inputPath, *output, len(data))
	} else {
		_, err = os.Stdout.Write(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: picassoc [options] <input.yaml|input.toml>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  picassoc shader.yaml                 Assemble to stdout\n")
	fmt.Fprintf(os.Stderr, "  picassoc -o shader.shbin shader.yaml Assemble to file\n")
	fmt.Fprintf(os.Stderr, "  picassoc -validate shader.toml       Validate before writing\n")
}
