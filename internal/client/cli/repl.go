package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = func(s string) { fmt.Println(s) }

// execIface is the minimal command surface the REPL needs. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context, paths []string) error
	List(ctx context.Context) error
	Upload(ctx context.Context, id string) error
	Retry(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	SetPrimary(ctx context.Context, id string) error
	SetAltText(ctx context.Context, id, text string) error
}

const helpText = "Commands: add <path>..., list, upload <id>, retry <id>, remove <id>, primary <id>, alt <id> <text>, help, exit"

// runREPL reads commands line by line and dispatches them to a. Command
// errors are printed and the loop continues; it exits on EOF, "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, in io.Reader) {
	scanner := bufio.NewScanner(in)
	printlnFn("eventhive media CLI (type 'help' for commands)")

	for {
		fmt.Printf("media (%s)> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "add":
			err = a.Add(ctx, args)
		case "list", "l":
			err = a.List(ctx)
		case "upload":
			err = withID(args, func(id string) error { return a.Upload(ctx, id) })
		case "retry":
			err = withID(args, func(id string) error { return a.Retry(ctx, id) })
		case "remove", "rm":
			err = withID(args, func(id string) error { return a.Remove(ctx, id) })
		case "primary":
			err = withID(args, func(id string) error { return a.SetPrimary(ctx, id) })
		case "alt":
			if len(args) < 2 {
				err = fmt.Errorf("usage: alt <id> <text>")
			} else {
				err = a.SetAltText(ctx, args[0], strings.Join(args[1:], " "))
			}
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("unknown command: " + cmd)
		}

		if err != nil {
			printlnFn("error: " + err.Error())
		}
	}
}

func withID(args []string, fn func(string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one item id")
	}
	return fn(args[0])
}
