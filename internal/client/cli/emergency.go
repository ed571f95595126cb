package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/client/emergency"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
)

// Emergency runs the nominee side of emergency access in its own loop. It
// needs no account and always ends with the flow wiped.
func (a *App) Emergency(ctx context.Context) error {
	flow := emergency.NewFlow(a.api)
	defer flow.Exit()

	a.println("Emergency access for nominees.")
	for {
		var err error
		switch flow.State() {
		case emergency.AwaitingEmail:
			err = a.emergencyEmail(ctx, flow)
		case emergency.AwaitingOTP:
			err = a.emergencyCode(ctx, flow)
		case emergency.Authorized:
			err = a.emergencyBrowse(ctx, flow)
		case emergency.Exited:
			a.println("Emergency session closed.")
			return nil
		}
		if err != nil {
			if isInputEnd(err) {
				return nil
			}
			a.println("Error:", describe(err))
		}
	}
}

func (a *App) emergencyEmail(ctx context.Context, flow *emergency.Flow) error {
	email, err := a.ask("Your email as registered by the account owner (empty to quit)")
	if err != nil {
		flow.Exit()
		return err
	}
	if email == "" {
		flow.Exit()
		return nil
	}
	if err := flow.SubmitEmail(ctx, email); err != nil {
		a.logger.Info(ctx, "emergency access request refused", "email", email, "error", err)
		return err
	}
	a.println("A verification code was sent to", email)
	return nil
}

func (a *App) emergencyCode(ctx context.Context, flow *emergency.Flow) error {
	answer, err := a.ask("Enter the code ('r' to resend, 'b' to change email, 'q' to quit)")
	if err != nil {
		flow.Exit()
		return err
	}
	switch answer {
	case "r":
		if err := flow.Resend(ctx); err != nil {
			return err
		}
		a.println("A new code was sent.")
		return nil
	case "b":
		return flow.Back()
	case "q":
		flow.Exit()
		return nil
	}

	if err := flow.SubmitCode(ctx, answer); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Access granted until %s.", flow.ExpiresAt().Local().Format(time.DateTime)))
	a.printShared(flow.Documents())
	return nil
}

func (a *App) printShared(docs []rpc.Document) {
	if len(docs) == 0 {
		a.println("No documents were shared with you.")
		return
	}
	for i, d := range docs {
		a.println(fmt.Sprintf("%2d. %-32s %s", i+1, d.FileName, d.AccessLevel))
	}
}

func (a *App) emergencyBrowse(ctx context.Context, flow *emergency.Flow) error {
	line, err := a.ask("view <n> | download <n> | list | exit")
	if err != nil {
		flow.Exit()
		return err
	}
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	docs := flow.Documents()
	pick := func() (rpc.Document, error) {
		if len(parts) < 2 {
			return rpc.Document{}, fmt.Errorf("usage: %s <n>", parts[0])
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 || n > len(docs) {
			return rpc.Document{}, fmt.Errorf("pick a number from 1 to %d", len(docs))
		}
		return docs[n-1], nil
	}

	switch parts[0] {
	case "list":
		a.printShared(docs)
	case "exit", "quit":
		flow.Exit()
	case "view":
		d, err := pick()
		if err != nil {
			return err
		}
		url, err := flow.View(ctx, d.ID)
		if err != nil {
			return err
		}
		a.println("Open this link within the hour:")
		a.println(url)
	case "download":
		d, err := pick()
		if err != nil {
			return err
		}
		url, err := flow.Download(ctx, d.ID)
		if err != nil {
			return err
		}
		path, err := a.save(ctx, url, d.FileName)
		if err != nil {
			return err
		}
		a.println("Saved to", path)
	default:
		a.println("Unknown command:", parts[0])
	}
	return nil
}
