// Command quizdoc compiles tag-markup quiz documents from the command line.
//
//	quizdoc check <file>                   parse and validate, print findings
//	quizdoc build [flags] <file>           compile and write the bundle
//
// Supported inputs: .docx, .pdf, .txt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	quizbuilder "github.com/NobleSoftware-Backend/quiz-builder-docs"
	"github.com/NobleSoftware-Backend/quiz-builder-docs/parser"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "check":
		err = runCheck(os.Args[2:])
	case "build":
		err = runBuild(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  quizdoc check <file>
  quizdoc build [-out dir] [-zip file] [-answer-key file] <file>`)
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
		return errors.New("check requires exactly one input file")
	}

	res, err := quizbuilder.CompileFile(context.Background(), fs.Arg(0))
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			return fmt.Errorf("parse failed at %s", pe.Error())
		}
		return err
	}

	for _, e := range res.Validation.Errors {
		fmt.Printf("ERROR line %d: %s\n", e.Line, e.Message)
	}
	for _, w := range res.Validation.Warnings {
		fmt.Printf("WARN  line %d: %s\n", w.Line, w.Message)
	}
	if !res.Valid() {
		return fmt.Errorf("%d validation error(s)", len(res.Validation.Errors))
	}
	fmt.Printf("OK: %s quiz, %d question(s), %d image(s)\n",
		res.Quiz.Type, len(res.Quiz.Questions), len(res.Quiz.Images))
	return nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	outDir := fs.String("out", "", "Bundle output directory (default: input name without extension)")
	zipPath := fs.String("zip", "", "Also write the bundle as a ZIP file")
	xlsxPath := fs.String("answer-key", "", "Also write an XLSX answer key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
		return errors.New("build requires exactly one input file")
	}
	input := fs.Arg(0)

	res, err := quizbuilder.CompileFile(context.Background(), input)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			return fmt.Errorf("parse failed at %s", pe.Error())
		}
		return err
	}
	if !res.Valid() {
		for _, e := range res.Validation.Errors {
			fmt.Fprintf(os.Stderr, "ERROR line %d: %s\n", e.Line, e.Message)
		}
		return fmt.Errorf("%d validation error(s); bundle not written", len(res.Validation.Errors))
	}
	for _, w := range res.Validation.Warnings {
		fmt.Fprintf(os.Stderr, "WARN  line %d: %s\n", w.Line, w.Message)
	}

	dir := *outDir
	if dir == "" {
		dir = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	if err := res.WriteBundle(dir); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	fmt.Printf("bundle written to %s (%d question(s), %d image(s))\n",
		dir, len(res.Quiz.Questions), len(res.Quiz.Images))

	if *zipPath != "" {
		f, err := os.Create(*zipPath)
		if err != nil {
			return fmt.Errorf("creating zip: %w", err)
		}
		if err := res.WriteZip(f); err != nil {
			f.Close()
			return fmt.Errorf("writing zip: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Println("zip written to", *zipPath)
	}

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			return fmt.Errorf("creating answer key: %w", err)
		}
		if err := res.WriteAnswerKey(f); err != nil {
			f.Close()
			return fmt.Errorf("writing answer key: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Println("answer key written to", *xlsxPath)
	}
	return nil
}
