// Command yamlgraph parses YAML and prints the resolved result.
//
// Usage:
//
//	yamlgraph [flags] [file]
//
// With no file the input is read from stdin. The default output is the native
// projection as indented JSON. Flags:
//
//	-tokens  print the token stream
//	-tree    print the resolved node graph; shared nodes are printed once and
//	         referenced as *N afterwards
//	-raw     skip tag processing
//	-i       start an interactive session
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/shapestone/yamlgraph/internal/tokenizer"
	"github.com/shapestone/yamlgraph/pkg/node"
	"github.com/shapestone/yamlgraph/pkg/yaml"
)

const (
	historyFile = ".yamlgraph_history"
	promptMain  = "yaml> "
	promptCont  = "....> "
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

type mode int

const (
	modeJSON mode = iota
	modeTokens
	modeTree
)

type options struct {
	mode mode
	opts []yaml.Option
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("yamlgraph: ")

	tokens := flag.Bool("tokens", false, "print the token stream")
	tree := flag.Bool("tree", false, "print the resolved node graph")
	raw := flag.Bool("raw", false, "skip tag processing")
	interactive := flag.Bool("i", false, "start an interactive session")
	maxDepth := flag.Int("max-depth", 0, "maximum nesting depth (0 keeps the default)")
	flag.Parse()

	o := options{mode: modeJSON}
	switch {
	case *tokens && *tree:
		log.Fatal("-tokens and -tree are mutually exclusive")
	case *tokens:
		o.mode = modeTokens
	case *tree:
		o.mode = modeTree
	}
	if *raw {
		o.opts = append(o.opts, yaml.WithoutTagProcessing())
	}
	if *maxDepth > 0 {
		o.opts = append(o.opts, yaml.WithMaxDepth(*maxDepth))
	}

	if *interactive {
		os.Exit(repl(o))
	}

	input, name, err := readInput(flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	out, err := render(input, o)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf("%s: %v", name, err)))
		os.Exit(1)
	}
	fmt.Println(out)
}

func readInput(args []string) (string, string, error) {
	switch len(args) {
	case 0:
		data, err := io.ReadAll(os.Stdin)
		return string(data), "<stdin>", err
	case 1:
		data, err := os.ReadFile(args[0])
		return string(data), args[0], err
	default:
		return "", "", fmt.Errorf("expected at most one file, got %d", len(args))
	}
}

// render runs the requested stage over input.
func render(input string, o options) (string, error) {
	switch o.mode {
	case modeTokens:
		tokens, err := tokenizer.Tokenize(input)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for i, tok := range tokens {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(tok.String())
		}
		return b.String(), nil

	case modeTree:
		root, err := yaml.ParseStream(input, o.opts...)
		if err != nil {
			return "", err
		}
		return dumpTree(root), nil

	default:
		v, err := yaml.ParseValue(input, o.opts...)
		if err != nil {
			return "", err
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("cannot print as JSON (use -tree for cyclic documents): %w", err)
		}
		return string(out), nil
	}
}

// dumpTree prints a node graph one node per line. A collection reached a second
// time prints as a reference to the number it was given on first visit.
func dumpTree(root *node.Node) string {
	var b strings.Builder
	ids := make(map[*node.Node]int)

	var walk func(n *node.Node, label string, depth int)
	walk = func(n *node.Node, label string, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(label)

		if id, ok := ids[n]; ok {
			fmt.Fprintf(&b, "*%d\n", id)
			return
		}
		if n.IsCollection() {
			ids[n] = len(ids) + 1
			fmt.Fprintf(&b, "&%d ", ids[n])
		}

		b.WriteString(n.Kind.String())
		if n.Meta.Tag != "" {
			fmt.Fprintf(&b, " %s", n.Meta.Tag)
		}
		if n.Meta.Anchor != "" {
			fmt.Fprintf(&b, " (anchor %s)", n.Meta.Anchor)
		}

		switch n.Kind {
		case node.ScalarNode:
			fmt.Fprintf(&b, " %#v\n", n.Value)
		case node.DocumentNode:
			fmt.Fprintf(&b, " %s\n", n.Version)
			for _, item := range n.Items {
				walk(item, "", depth+1)
			}
		case node.RootNode:
			b.WriteByte('\n')
			for _, item := range n.Items {
				walk(item, "", depth+1)
			}
		case node.MappingNode:
			b.WriteByte('\n')
			for _, pair := range n.Pairs {
				walk(pair.Key, "? ", depth+1)
				walk(pair.Value, ": ", depth+1)
			}
		default:
			b.WriteByte('\n')
			for _, item := range n.Items {
				walk(item, "- ", depth+1)
			}
		}
	}

	walk(root, "", 0)
	return strings.TrimRight(b.String(), "\n")
}

// repl reads documents from the terminal. A document ends at an empty line.
func repl(o options) int {
	fmt.Println("yamlgraph interactive mode\nEnter a document and finish it with an empty line. Ctrl+D exits.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetMultiLineMode(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer func() {
		signal.Stop(sigc)
		close(done)
	}()
	go func() {
		select {
		case <-sigc:
			ln.Close()
			os.Exit(130)
		case <-done:
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		doc, ok := readDocument(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(doc) == "" {
			continue
		}

		out, err := render(doc, o)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		if o.mode == modeJSON {
			fmt.Println(green(out))
		} else {
			fmt.Println(blue(out))
		}
	}
}

// readDocument collects lines until an empty line. Each line goes to the
// history on its own so documents can be recalled line by line.
func readDocument(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			log.Print(err)
			return "", false
		}

		if line == "" {
			return b.String(), true
		}
		ln.AppendHistory(line)
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
