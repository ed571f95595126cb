package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	err      error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) rec(name string) func(context.Context) error {
	return func(context.Context) error {
		f.calls = append(f.calls, name)
		return f.err
	}
}

func (f *fakeExec) Signup(ctx context.Context) error { return f.rec("signup")(ctx) }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.rec("login")(ctx)
}
func (f *fakeExec) ResetPassword(ctx context.Context) error { return f.rec("reset")(ctx) }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.rec("logout")(ctx)
}
func (f *fakeExec) ShowSettings(ctx context.Context) error   { return f.rec("settings")(ctx) }
func (f *fakeExec) EditSettings(ctx context.Context) error   { return f.rec("setup")(ctx) }
func (f *fakeExec) ListNominees(ctx context.Context) error   { return f.rec("nominees")(ctx) }
func (f *fakeExec) AddNominee(ctx context.Context) error     { return f.rec("addnominee")(ctx) }
func (f *fakeExec) DeleteNominee(ctx context.Context) error  { return f.rec("delnominee")(ctx) }
func (f *fakeExec) ListGrants(ctx context.Context) error     { return f.rec("grants")(ctx) }
func (f *fakeExec) Grant(ctx context.Context) error          { return f.rec("grant")(ctx) }
func (f *fakeExec) Revoke(ctx context.Context) error         { return f.rec("revoke")(ctx) }
func (f *fakeExec) ListDocuments(ctx context.Context) error  { return f.rec("docs")(ctx) }
func (f *fakeExec) Upload(ctx context.Context) error         { return f.rec("upload")(ctx) }
func (f *fakeExec) Fetch(ctx context.Context) error          { return f.rec("fetch")(ctx) }
func (f *fakeExec) DeleteDocument(ctx context.Context) error { return f.rec("deldoc")(ctx) }
func (f *fakeExec) Emergency(ctx context.Context) error      { return f.rec("emergency")(ctx) }

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrint(t)

	input := strings.Join([]string{
		"help",
		"docs",
		"emergency",
		"login",
		"help",
		"",
		"settings", "setup", "nominees", "addnominee", "delnominee",
		"grants", "grant", "revoke", "docs", "upload", "fetch", "deldoc",
		"foobar",
		"logout",
		"signup",
		"reset",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "guest" }, rdr(input))

	assert.Equal(t, []string{
		"emergency", "login",
		"settings", "setup", "nominees", "addnominee", "delnominee",
		"grants", "grant", "revoke", "docs", "upload", "fetch", "deldoc",
		"logout", "signup", "reset",
	}, exec.calls, "commands after exit are not read")

	assert.Contains(t, *out, guestHelp)
	assert.Contains(t, *out, ownerHelp)
	assert.Contains(t, *out, "Please log in first.")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "vault (guest)> ")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{err: common.Denied(common.ReasonNomineeNotVerified)}
	runREPL(context.Background(), exec, func() string { return "guest" }, rdr("emergency\nemergency"))

	assert.Equal(t, []string{"emergency", "emergency"}, exec.calls, "last line without newline still runs")
	assert.Contains(t, *out, "Error: "+common.AccessDeniedGenericMessage)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(""))
	assert.Empty(t, exec.calls)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{common.Denied(common.ReasonAccessNotGranted), common.AccessDeniedGenericMessage},
		{common.ErrAccessDenied, common.AccessDeniedGenericMessage},
		{common.Denied(common.ReasonInsufficientLevel), "this document is shared for viewing only"},
		{common.ValidationError("phone must have 10 digits"), "validation error: phone must have 10 digits"},
		{fmt.Errorf("verify: %w", common.ErrExpired), "the code has expired, request a new one"},
		{common.ErrMismatch, "the code is not correct"},
		{common.ErrTokenExpired, "session expired, please log in again"},
		{errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.err), tt.err.Error())
	}
}
