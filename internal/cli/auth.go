package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/notevault/notevault/internal/common"
)

// register prompts for a username, password and master key and creates the
// account. Secrets are wiped before returning.
func (s *Shell) register(ctx context.Context) {
	username, err := getSimpleText(s.reader, "Choose a username", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	password, err := getSecret("Choose a password", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(password)

	masterKey, err := getSecret("Choose a master key (unlocks your data, cannot be reset)", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(masterKey)

	user, err := s.app.Users.Register(ctx, username, string(password), string(masterKey))
	if err != nil {
		s.fail(err)
		return
	}

	s.success("Account %q created. Use 'login' to sign in.", user.Username)
}

// login authenticates and unlocks the session key. Unlocking runs the key
// derivation, which is deliberately slow, so a spinner covers the wait.
func (s *Shell) login(ctx context.Context) {
	username, err := getSimpleText(s.reader, "Username", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	password, err := getSecret("Password", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(password)

	masterKey, err := getSecret("Master key", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(masterKey)

	user, err := s.app.Users.Login(ctx, username, string(password), string(masterKey))
	if err != nil {
		s.fail(err)
		return
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " Unlocking vault..."
	_ = sp.Color("cyan")
	sp.Start()
	err = s.app.Users.InitSession(ctx, user.ID, string(masterKey))
	sp.Stop()
	if err != nil {
		s.fail(err)
		return
	}

	s.user = user
	s.success("Logged in as %s", user.Username)
}

// logout drops the cached session key and forgets the signed-in user.
func (s *Shell) logout(ctx context.Context) {
	if s.user == nil {
		return
	}
	s.app.Users.ClearSession(ctx, s.user.ID)
	s.user = nil
	s.vaults, s.notes, s.collections = nil, nil, nil
	s.success("Logged out")
}

// recoverPassword resets a forgotten password using the master key. Works
// while signed out.
func (s *Shell) recoverPassword(ctx context.Context) {
	username, err := getSimpleText(s.reader, "Username", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	masterKey, err := getSecret("Master key", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(masterKey)

	newPassword, err := getSecret("New password", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(newPassword)

	if err := s.app.Users.RecoverPassword(ctx, username, string(masterKey), string(newPassword)); err != nil {
		s.fail(err)
		return
	}

	s.success("Password updated")
}

// changePassword rotates the signed-in user's password, authorized by the
// master key.
func (s *Shell) changePassword(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	masterKey, err := getSecret("Master key", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(masterKey)

	newPassword, err := getSecret("New password", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	defer common.WipeByteArray(newPassword)

	if err := s.app.Users.ChangePassword(ctx, s.user.ID, string(masterKey), string(newPassword)); err != nil {
		s.fail(err)
		return
	}

	s.success("Password updated")
}

// showAvatar prints the stored avatar as a data URI, truncated for the
// terminal.
func (s *Shell) showAvatar(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	avatar, err := s.app.Users.Avatar(ctx, s.user.ID)
	if err != nil {
		s.fail(err)
		return
	}
	if avatar == nil {
		fmt.Println("No avatar set. Use 'setavatar <file>' to store one.")
		return
	}

	uri := *avatar
	if len(uri) > 80 {
		uri = uri[:80] + fmt.Sprintf("... (%d bytes)", len(*avatar))
	}
	fmt.Println(uri)
}

// setAvatar reads an image file and stores it encrypted.
func (s *Shell) setAvatar(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: setavatar <file>")
		return
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		s.fail(err)
		return
	}

	if err := s.app.Users.UpdateAvatar(ctx, s.user.ID, image); err != nil {
		s.fail(err)
		return
	}

	s.success("Avatar updated")
}

// clearAvatar removes the stored avatar.
func (s *Shell) clearAvatar(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	if err := s.app.Users.UpdateAvatar(ctx, s.user.ID, nil); err != nil {
		s.fail(err)
		return
	}

	s.success("Avatar cleared")
}

// deleteAccount removes the account and everything in it after an explicit
// confirmation.
func (s *Shell) deleteAccount(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	answer, err := getSimpleText(s.reader,
		"This deletes the account and ALL vaults, notes and collections. Type 'yes' to confirm", os.Stdout)
	if err != nil || answer != "yes" {
		return
	}

	if err := s.app.Users.Delete(ctx, s.user.ID); err != nil {
		s.fail(err)
		return
	}

	s.user = nil
	s.vaults, s.notes, s.collections = nil, nil, nil
	s.success("Account deleted")
}
