package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. args are the words after the verb.
type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	prompt() string
	commands() []command
}

// runREPL reads one line at a time from reader, looks the first word up in
// the commands of the current view and runs it. The command set is fetched
// again for every line, so a login, a logout or a forced logout changes
// what is accepted on the very next prompt.
//
// Failures are reported through describeError and never stop the loop. The
// loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(a.prompt())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			printHelp(a.commands())
			continue
		}

		cmd, ok := lookup(a.commands(), name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			printlnFn(describeError(err))
		}
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printHelp(cmds []command) {
	printlnFn("Available commands:")
	for _, c := range cmds {
		printlnFn(fmt.Sprintf("  %-16s %s", c.name, c.usage))
	}
	printlnFn(fmt.Sprintf("  %-16s %s", "help", "show this list"))
	printlnFn(fmt.Sprintf("  %-16s %s", "exit", "leave the program"))
}
