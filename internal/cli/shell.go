// Package cli implements the interactive NoteVault shell.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/notevault/notevault/internal/app"
	"github.com/notevault/notevault/internal/common"
	"github.com/notevault/notevault/internal/models"
)

// getSimpleText, getSecret and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret
var getMultiline = GetMultiline

// Shell is the interactive command loop. It tracks the signed-in user and
// the most recently listed vaults, notes and collections so that commands
// can address them by list number.
type Shell struct {
	app    *app.App
	reader *bufio.Reader

	user        *models.PublicUser
	vaults      []models.Vault
	notes       []models.Note
	collections []models.Collection
}

func NewShell(a *app.App) *Shell {
	return &Shell{app: a, reader: bufio.NewReader(os.Stdin)}
}

func (s *Shell) isLoggedIn() bool {
	return s.user != nil
}

func (s *Shell) getStatus() string {
	if s.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s) ", s.user.Username)
}

// Run starts a simple read-eval-print loop.
//
// It reads a line, parses the first token as the command, and dispatches to
// methods on s. Unknown commands are reported back to the user. The loop
// exits on EOF or when the user types "exit" or "quit".
func (s *Shell) Run(ctx context.Context) {
	fmt.Println("Welcome to NoteVault (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("nv %s> ", s.getStatus())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if s.isLoggedIn() {
				fmt.Println("Vaults:      (l)ist, mkvault, editvault <n>, rmvault <n>, movevault <n> <pos>")
				fmt.Println("Notes:       notes <n>, addnote <n>, shownote <n>, editnote <n>, rmnote <n>")
				fmt.Println("Collections: cols, mkcol, rmcol <n>, colvault <n> <vault#>, uncolvault <n> <vault#>")
				fmt.Println("Account:     avatar, setavatar <file>, rmavatar, passwd, rmaccount, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, recover, exit")
			}

		case "register":
			s.register(ctx)
		case "login":
			s.login(ctx)
		case "recover":
			s.recoverPassword(ctx)
		case "logout":
			s.logout(ctx)
		case "passwd":
			s.changePassword(ctx)
		case "rmaccount":
			s.deleteAccount(ctx)
		case "avatar":
			s.showAvatar(ctx)
		case "setavatar":
			s.setAvatar(ctx, args)
		case "rmavatar":
			s.clearAvatar(ctx)

		case "l", "list":
			s.listVaults(ctx)
		case "mkvault":
			s.addVault(ctx)
		case "rmvault":
			s.deleteVault(ctx, args)
		case "editvault":
			s.editVault(ctx, args)
		case "movevault":
			s.moveVault(ctx, args)

		case "notes":
			s.listNotes(ctx, args)
		case "addnote":
			s.addNote(ctx, args)
		case "shownote":
			s.showNote(ctx, args)
		case "editnote":
			s.editNote(ctx, args)
		case "rmnote":
			s.deleteNote(ctx, args)

		case "cols":
			s.listCollections(ctx)
		case "mkcol":
			s.addCollection(ctx)
		case "rmcol":
			s.deleteCollection(ctx, args)
		case "colvault":
			s.collectVault(ctx, args)
		case "uncolvault":
			s.uncollectVault(ctx, args)

		case "exit", "quit":
			s.logout(ctx)
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (s *Shell) success(format string, args ...any) {
	fmt.Println(color.GreenString("✓ "+format, args...))
}

// fail prints a user-facing message for err. Known failures are translated;
// anything else is shown verbatim.
func (s *Shell) fail(err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, common.ErrInvalidCredential):
		msg = "invalid credentials"
	case errors.Is(err, common.ErrNotFound):
		msg = "not found"
	case errors.Is(err, common.ErrAlreadyExists):
		msg = "already exists"
	case errors.Is(err, common.ErrSessionNotInitialized):
		msg = "session is locked, log in first"
	case errors.Is(err, common.ErrDecryptionFailed):
		msg = "decryption failed"
	}
	fmt.Println(color.RedString("✗ %s", msg))
}

// requireLogin reports whether a user is signed in, printing a hint if not.
func (s *Shell) requireLogin() bool {
	if !s.isLoggedIn() {
		fmt.Println("Log in first")
		return false
	}
	return true
}

// pickIndex resolves a 1-based list number from args[argPos] against a list
// of length n. Returns -1 and prints usage on any problem.
func pickIndex(args []string, argPos, n int, usage string) int {
	if len(args) <= argPos {
		fmt.Println("Usage:", usage)
		return -1
	}
	i, err := strconv.Atoi(args[argPos])
	if err != nil || i < 1 || i > n {
		fmt.Println("No such item:", args[argPos])
		return -1
	}
	return i - 1
}
