package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface is the command surface the REPL drives. *App implements it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Clients(ctx context.Context, term string) error
	AddClient(ctx context.Context) error
	Invoices(ctx context.Context) error
	NewInvoice(ctx context.Context) error
	SetStatus(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Logs(ctx context.Context, args []string) error
	Verify(ctx context.Context) error
	Stats(ctx context.Context) error
	Backup(ctx context.Context) error
	Restore(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, exit"
	helpLoggedIn  = "Available commands: clients [term], addclient, invoices, newinvoice, status <id> <status>, " +
		"export <id> [xml|json], profile, editprofile, logs [n], verify, stats, backup, restore <file>, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". Handler errors are printed and the loop
// continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if s := statusFn(); s != "" {
			printFn(fmt.Sprintf("afactura (%s)> ", s))
		} else {
			printFn("afactura> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
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
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "login":
			report(a.Login(ctx))
			continue
		}

		handler, ok := loggedInCommand(a, cmd, args)
		switch {
		case !ok:
			printlnFn("Unknown command:", cmd)
		case !a.isLoggedIn():
			printlnFn("Please log in first (type 'login').")
		default:
			report(handler(ctx))
		}
	}
}

func loggedInCommand(a execIface, cmd string, args []string) (func(context.Context) error, bool) {
	switch cmd {
	case "logout":
		return a.Logout, true
	case "clients":
		return func(ctx context.Context) error { return a.Clients(ctx, strings.Join(args, " ")) }, true
	case "addclient":
		return a.AddClient, true
	case "invoices":
		return a.Invoices, true
	case "newinvoice":
		return a.NewInvoice, true
	case "status":
		return func(ctx context.Context) error { return a.SetStatus(ctx, args) }, true
	case "export":
		return func(ctx context.Context) error { return a.Export(ctx, args) }, true
	case "profile":
		return a.Profile, true
	case "editprofile":
		return a.EditProfile, true
	case "logs":
		return func(ctx context.Context) error { return a.Logs(ctx, args) }, true
	case "verify":
		return a.Verify, true
	case "stats":
		return a.Stats, true
	case "backup":
		return a.Backup, true
	case "restore":
		return func(ctx context.Context) error { return a.Restore(ctx, args) }, true
	}
	return nil, false
}

func report(err error) {
	if err != nil {
		printlnFn(errColor.Sprint("Error: " + describe(err)))
	}
}
