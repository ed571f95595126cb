package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Logout(ctx context.Context) error

	ShowSettings(ctx context.Context) error
	EditSettings(ctx context.Context) error

	ListNominees(ctx context.Context) error
	AddNominee(ctx context.Context) error
	DeleteNominee(ctx context.Context) error
	ListGrants(ctx context.Context) error
	Grant(ctx context.Context) error
	Revoke(ctx context.Context) error

	ListDocuments(ctx context.Context) error
	Upload(ctx context.Context) error
	Fetch(ctx context.Context) error
	DeleteDocument(ctx context.Context) error

	Emergency(ctx context.Context) error
}

const (
	guestHelp = "Available commands: signup, login, reset, emergency, exit"
	ownerHelp = "Available commands: settings, setup, nominees, addnominee, delnominee, grants, grant, revoke, " +
		"docs, upload, fetch, deldoc, emergency, logout, exit"
)

// runREPL reads one command per line and dispatches it to a. Owner commands
// are refused until the user is signed in. Handler errors are printed and
// the loop goes on. It returns on EOF or "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vault (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var handler func(context.Context) error
		owner := true

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(ownerHelp)
			} else {
				printlnFn(guestHelp)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "signup":
			handler, owner = a.Signup, false
		case "login":
			handler, owner = a.Login, false
		case "reset":
			handler, owner = a.ResetPassword, false
		case "emergency":
			handler, owner = a.Emergency, false

		case "logout":
			handler = a.Logout
		case "settings":
			handler = a.ShowSettings
		case "setup":
			handler = a.EditSettings
		case "nominees":
			handler = a.ListNominees
		case "addnominee":
			handler = a.AddNominee
		case "delnominee":
			handler = a.DeleteNominee
		case "grants":
			handler = a.ListGrants
		case "grant":
			handler = a.Grant
		case "revoke":
			handler = a.Revoke
		case "docs":
			handler = a.ListDocuments
		case "upload":
			handler = a.Upload
		case "fetch":
			handler = a.Fetch
		case "deldoc":
			handler = a.DeleteDocument

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if owner && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}
		if err := handler(ctx); err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}
