package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

func (s *Shell) listVaults(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	vaults, err := s.app.Vaults.GetVaults(ctx, s.user.ID)
	if err != nil {
		s.fail(err)
		return
	}
	s.vaults = vaults

	if len(vaults) == 0 {
		fmt.Println("No vaults yet. Use 'mkvault' to create one.")
		return
	}
	for i, v := range vaults {
		fmt.Printf("%3d. %s %s\n", i+1, v.Name, v.Color)
	}
}

func (s *Shell) addVault(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	name, err := getSimpleText(s.reader, "Vault name", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	colorHex, err := getSimpleText(s.reader, "Color (hex, e.g. #ff8800)", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	vault, err := s.app.Vaults.CreateVault(ctx, s.user.ID, name, colorHex, nil)
	if err != nil {
		s.fail(err)
		return
	}

	s.success("Vault %q created", vault.Name)
}

func (s *Shell) editVault(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.vaults), "editvault <n>  (run 'list' first)")
	if i < 0 {
		return
	}

	name, err := getSimpleText(s.reader, "New name", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	colorHex, err := getSimpleText(s.reader, "New color (hex)", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	vault := s.vaults[i]
	vault.Name = name
	vault.Color = colorHex

	if err := s.app.Vaults.UpdateVault(ctx, &vault, nil); err != nil {
		s.fail(err)
		return
	}

	s.vaults[i] = vault
	s.success("Vault updated")
}

func (s *Shell) deleteVault(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.vaults), "rmvault <n>  (run 'list' first)")
	if i < 0 {
		return
	}

	if err := s.app.Vaults.DeleteVault(ctx, s.vaults[i].ID); err != nil {
		s.fail(err)
		return
	}

	s.success("Vault %q deleted", s.vaults[i].Name)
	s.vaults = append(s.vaults[:i], s.vaults[i+1:]...)
}

func (s *Shell) moveVault(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.vaults), "movevault <n> <position>")
	if i < 0 {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: movevault <n> <position>")
		return
	}
	position, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("Not a position:", args[1])
		return
	}

	if err := s.app.Vaults.UpdateVaultPosition(ctx, s.vaults[i].ID, position); err != nil {
		s.fail(err)
		return
	}

	s.success("Vault %q moved to position %d", s.vaults[i].Name, position)
}
