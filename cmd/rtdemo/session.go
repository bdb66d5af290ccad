package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/dekarrin/allstarrt/internal/rtconfig"
	"github.com/dekarrin/allstarrt/internal/rtsample"
	"github.com/dekarrin/allstarrt/rtobserve"
)

// runSession reads lines from rl until EOF or a "QUIT" line, parsing each
// one against g and printing the resulting tree or error, the way tqi's
// RunUntilQuit drives its own read-eval-print loop.
func runSession(rl commandReader, g rtsample.Grammar, opts rtconfig.Options, sink *rtobserve.Sink) error {
	for {
		line, err := rl.ReadCommand()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if line == "QUIT" {
			return nil
		}
		if line == "" {
			continue
		}

		res, parseErr := rtsample.Run(g, line, opts)

		if sink != nil {
			for _, e := range res.Errors {
				sink.SyntaxError(e)
			}
		}

		for _, e := range res.Errors {
			fmt.Printf("syntax error at %d:%d: %s\n", e.Line, e.Column, e.Message)
		}

		if res.Tree != nil {
			fmt.Printf("%s\n", res.Tree.GetText())
		}

		if parseErr != nil {
			fmt.Printf("parse aborted: %s\n", parseErr.Error())
		}
	}
}
