package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/mfroeh/tinygrep/regex"
)

var matchColor = color.New(color.FgRed, color.Bold)

var cli struct {
	Pattern string   `arg:"" name:"pattern" help:"Regex pattern to use in search" type:"string"`
	Paths   []string `arg:"" optional:"" name:"path" help:"Paths to search" type:"path"`

	Replace *string `short:"r" help:"Print matching lines with every match replaced by this text"`
	Count   bool    `short:"c" help:"Only print the number of matching lines per file"`
	Dump    bool    `help:"Print the compiled pattern and exit"`
	Strict  bool    `help:"Reject patterns that would otherwise be truncated or degrade silently"`
	Color   string  `enum:"auto,always,never" default:"auto" help:"Highlight matches (${enum})"`
}

type options struct {
	replace *string
	count   bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("gogrep: ")

	kong.Parse(&cli,
		kong.Name("gogrep"),
		kong.Description("Recursively searches the current directory for lines matching a regex pattern."),
		kong.UsageOnError(),
	)

	switch cli.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	re, err := compile(cli.Pattern, cli.Strict)
	if err != nil {
		log.Printf("failed to build regex: %v", err)
		os.Exit(2)
	}

	if cli.Dump {
		fmt.Print(re.Dump())
		return
	}

	if len(cli.Paths) == 0 {
		cli.Paths = []string{"."}
	}

	opts := options{replace: cli.Replace, count: cli.Count}
	anyMatch := false
	for _, path := range cli.Paths {
		matched, err := searchPath(os.Stdout, path, &re, opts)
		if err != nil {
			log.Printf("%s: %v", path, err)
			os.Exit(2)
		}
		anyMatch = anyMatch || matched
	}

	if !anyMatch {
		os.Exit(1)
	}
}

func compile(pattern string, strict bool) (regex.Regex, error) {
	if strict {
		return regex.CompileStrict(pattern)
	}
	return regex.Compile(pattern), nil
}

func searchPath(w io.Writer, path string, re *regex.Regex, opts options) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}

	if info.IsDir() {
		return recursivelySearchDir(w, path, re, opts)
	}
	return searchFile(w, path, re, opts)
}

func recursivelySearchDir(w io.Writer, path string, re *regex.Regex, opts options) (bool, error) {
	anyMatch := false
	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// follows symlinks, broken ones are ignored
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		matched, err := searchFile(w, path, re, opts)
		anyMatch = anyMatch || matched
		return err
	})

	return anyMatch, err
}

func searchFile(w io.Writer, path string, re *regex.Regex, opts options) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	printFileHeader := false
	count := 0
	for i, line := range strings.Split(string(content), "\n") {
		matches := re.FindAll(line, -1)
		if len(matches) == 0 {
			continue
		}
		count++
		if opts.count {
			continue
		}

		if !printFileHeader {
			printFileHeader = true
			fmt.Fprintln(w, path, ":")
		}
		fmt.Fprintf(w, "%d:%s\n", i+1, formatLine(line, matches, opts.replace))
	}

	if opts.count {
		if count > 0 {
			fmt.Fprintf(w, "%s:%d\n", path, count)
		}
		return count > 0, nil
	}

	if printFileHeader {
		fmt.Fprintln(w)
	}

	return count > 0, nil
}

// formatLine highlights every match, or the text it is replaced with
func formatLine(line string, matches []regex.Match, replace *string) string {
	out := strings.Builder{}
	lastMatchEnd := 0
	for _, m := range matches {
		out.WriteString(line[lastMatchEnd:m.Start])
		switch {
		case replace != nil:
			matchColor.Fprint(&out, *replace)
		case m.Length > 0:
			matchColor.Fprint(&out, line[m.Start:m.End()])
		}
		lastMatchEnd = m.End()
	}
	out.WriteString(line[lastMatchEnd:])
	return out.String()
}
