package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/rentdesk/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(w io.Writer, a ...any) (int, error) {
	return fmt.Fprintln(w, a...)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Set(ctx context.Context, id string, args []string) error
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, path string) error
	Dashboard(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, help, exit"
	helpSignedIn  = "Available commands: list [category=.. min_price=.. max_price=.. start=.. end=.. page=.. search=.. status=..], " +
		"show <id>, create, edit <id>, set <id> field=value..., delete <id>, upload <file>, dashboard, whoami, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the rentdesk CLI.
//
// Commands are read line by line from r, the same reader the interactive
// prompts use, and every message goes to w. Apartment commands require a session. Errors returned by a
// command are printed and the loop continues. The loop exits on EOF, on
// "exit"/"quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(w, fmt.Sprintf("rentdesk> %s > ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(w, helpSignedIn)
			} else {
				printlnFn(w, helpAnonymous)
			}
			continue

		case "exit", "quit":
			printlnFn(w, "Bye!")
			return

		case "register", "login":
			if a.isLoggedIn() {
				printlnFn(w, "Already logged in, logout first")
				continue
			}
		}

		if needsSession(cmd) && !a.isLoggedIn() {
			printlnFn(w, "Please login first")
			continue
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn(w, describeError(err))
		}
	}
}

func needsSession(cmd string) bool {
	switch cmd {
	case "register", "login":
		return false
	}
	return true
}

var errUsage = errors.New("usage")

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	withID := func(fn func(context.Context, string) error, usage string) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: %s", errUsage, usage)
		}
		return fn(ctx, args[0])
	}

	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "l", "list":
		return a.List(ctx, args)
	case "show":
		return withID(a.Show, "show <id>")
	case "create":
		return a.Create(ctx)
	case "edit":
		return withID(a.Edit, "edit <id>")
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("%w: set <id> field=value... (fields: %s)", errUsage, strings.Join(services.PatchableFields, ", "))
		}
		return a.Set(ctx, args[0], args[1:])
	case "delete":
		return withID(a.Delete, "delete <id>")
	case "upload":
		return withID(a.Upload, "upload <file>")
	case "dashboard":
		return a.Dashboard(ctx)
	}
	return fmt.Errorf("unknown command: %s", cmd)
}
