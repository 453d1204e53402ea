package shell

import (
	"fmt"
	"strings"
)

// Reserved marker tokens recognized after the argument list.
const (
	markerInput      = "<"
	markerOutput     = ">"
	markerBackground = "&"
)

// command is one parsed input line:
//
//	name [arg ...] [< inputPath] [> outputPath] [&]
//
// args[0] always equals name, matching exec argument-vector semantics.
// A command is owned by the loop iteration that produced it and never
// crosses into the next one.
type command struct {
	name       string
	args       []string
	inputPath  string
	outputPath string
	background bool
}

// parseLine splits a whitespace-delimited input line into a command. A
// nil command with nil error means there is nothing to run: the line
// was empty, pure whitespace, or a # comment. fgOnly vetoes any &
// marker at parse time, silently, so a vetoed command parses exactly
// like its foreground form.
func parseLine(line string, fgOnly bool, maxArgs int) (*command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
		return nil, nil
	}

	cmd := &command{name: tokens[0], args: []string{tokens[0]}}
	i := 1
	for ; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == markerInput || tok == markerOutput || tok == markerBackground {
			break
		}
		if len(cmd.args)-1 >= maxArgs {
			return nil, fmt.Errorf("too many arguments (limit %d)", maxArgs)
		}
		cmd.args = append(cmd.args, tok)
	}

	// Redirect and background markers may appear in any order; a later
	// redirect of the same kind overwrites an earlier one. Anything
	// else in the tail is ignored, as in the original syntax.
	for ; i < len(tokens); i++ {
		switch tokens[i] {
		case markerInput:
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing path after %s", markerInput)
			}
			i++
			cmd.inputPath = tokens[i]
		case markerOutput:
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("missing path after %s", markerOutput)
			}
			i++
			cmd.outputPath = tokens[i]
		case markerBackground:
			if !fgOnly {
				cmd.background = true
			}
		}
	}
	return cmd, nil
}
