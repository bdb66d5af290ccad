/*
Rtdemo runs one of the built-in sample grammars against interactively typed
input, the way tqi runs a TunaQuest world interactively.

Usage:

	rtdemo [flags]

The flags are:

	-g, --grammar NAME
		The sample grammar to parse input against. Defaults to "stat". Pass
		--list to see every available grammar.

	-l, --list
		List the available sample grammars and exit.

	-c, --config FILE
		Load parser/lexer options from the given TOML file. Missing files
		are not an error; defaults apply instead.

	-o, --observe FILE
		Persist every syntax-error and ambiguity event raised during the
		session to the given SQLite file via rtobserve.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline, the same override tqi offers.

Once a session has started, each line typed is parsed as one instance of the
chosen start rule; the resulting tree or error is printed, and the session
continues until end of input or the line "QUIT" is entered.
*/
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/allstarrt/internal/rtconfig"
	"github.com/dekarrin/allstarrt/internal/rtsample"
	"github.com/dekarrin/allstarrt/rtobserve"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the session.
	ExitInitError

	// ExitRunError indicates an unsuccessful program execution due to a
	// problem while reading or persisting session input.
	ExitRunError
)

var (
	returnCode    int     = ExitSuccess
	flagGrammar   *string = pflag.StringP("grammar", "g", "stat", "The sample grammar to parse input against")
	flagList      *bool   = pflag.BoolP("list", "l", false, "List the available sample grammars and exit")
	flagConfig    *string = pflag.StringP("config", "c", "", "TOML file to load parser/lexer options from")
	flagObserveDB *string = pflag.StringP("observe", "o", "", "SQLite file to persist syntax-error/ambiguity events to")
	flagDirect    *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagList {
		printGrammarList()
		return
	}

	g, ok := rtsample.Find(*flagGrammar)
	if !ok {
		fmt.Fprintf(os.Stderr, "ERROR: unknown grammar %q; pass --list to see available grammars\n", *flagGrammar)
		returnCode = ExitInitError
		return
	}

	opts := rtconfig.Defaults()
	if *flagConfig != "" {
		loaded, err := rtconfig.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		opts = loaded
	}

	var sink *rtobserve.Sink
	if *flagObserveDB != "" {
		var err error
		sink, err = rtobserve.Open(*flagObserveDB, "rtdemo")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer sink.Close()
	}

	rl, err := newReader(*flagDirect, g.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	if err := runSession(rl, g, opts, sink); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
}

func printGrammarList() {
	var names []string
	for _, g := range rtsample.Registry() {
		names = append(names, fmt.Sprintf("%s (%s)", g.Name, g.Description))
	}
	fmt.Printf("Available grammars: %s\n", oxfordCommaJoin(names))
}

// oxfordCommaJoin joins names the way a human would read a list aloud: no
// separator for one item, "and" for two, an Oxford comma before "and" for
// three or more.
func oxfordCommaJoin(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		last := len(names) - 1
		return strings.Join(names[:last], ", ") + ", and " + names[last]
	}
}

// commandReader is the subset of input.InteractiveCommandReader /
// input.DirectCommandReader that rtdemo's session loop needs.
type commandReader interface {
	ReadCommand() (string, error)
	Close() error
}

type directReader struct {
	rl *readline.Instance
}

func newReader(forceDirect bool, grammarName string) (commandReader, error) {
	prompt := fmt.Sprintf("%s> ", grammarName)
	if forceDirect {
		return &stdinReader{prompt: prompt, in: bufio.NewReader(os.Stdin)}, nil
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &directReader{rl: rl}, nil
}

func (d *directReader) ReadCommand() (string, error) {
	line, err := d.rl.Readline()
	return strings.TrimSpace(line), err
}

func (d *directReader) Close() error {
	return d.rl.Close()
}

type stdinReader struct {
	prompt string
	in     *bufio.Reader
}

func (s *stdinReader) ReadCommand() (string, error) {
	fmt.Print(s.prompt)
	line, err := s.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

func (s *stdinReader) Close() error { return nil }
