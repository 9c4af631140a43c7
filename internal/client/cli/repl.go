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

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Stats(ctx context.Context) error
	Goals(ctx context.Context) error
	Progress(ctx context.Context) error
	ListWorkouts(ctx context.Context) error
	AddWorkout(ctx context.Context) error
	EditWorkout(ctx context.Context, id string) error
	DeleteWorkout(ctx context.Context, id string) error
	Status(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The first token is the command, the rest are its arguments. Handler
// errors are printed and the loop carries on. The loop exits on EOF, on
// "exit" or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("hd (%s) > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, stats, goals, progress, workouts, addworkout, editworkout <id>, delworkout <id>, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, stats, goals, progress, workouts, addworkout, editworkout <id>, delworkout <id>, status, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "stats":
			cmdErr = a.Stats(ctx)

		case "goals":
			cmdErr = a.Goals(ctx)

		case "progress":
			cmdErr = a.Progress(ctx)

		case "w", "workouts":
			cmdErr = a.ListWorkouts(ctx)

		case "addworkout":
			cmdErr = a.AddWorkout(ctx)

		case "editworkout":
			if len(args) == 0 {
				printlnFn("Usage: editworkout <id>")
				continue
			}
			cmdErr = a.EditWorkout(ctx, args[0])

		case "delworkout":
			if len(args) == 0 {
				printlnFn("Usage: delworkout <id>")
				continue
			}
			cmdErr = a.DeleteWorkout(ctx, args[0])

		case "status":
			cmdErr = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
