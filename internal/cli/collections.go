package cli

import (
	"context"
	"fmt"
	"os"
)

func (s *Shell) listCollections(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	collections, err := s.app.Collections.GetCollections(ctx, s.user.ID)
	if err != nil {
		s.fail(err)
		return
	}
	s.collections = collections

	if len(collections) == 0 {
		fmt.Println("No collections yet. Use 'mkcol' to create one.")
		return
	}
	for i, c := range collections {
		fmt.Printf("%3d. %s (%d vaults)\n", i+1, c.Name, len(c.VaultIDs))
	}
}

func (s *Shell) addCollection(ctx context.Context) {
	if !s.requireLogin() {
		return
	}

	name, err := getSimpleText(s.reader, "Collection name", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	collection, err := s.app.Collections.CreateCollection(ctx, s.user.ID, name)
	if err != nil {
		s.fail(err)
		return
	}

	s.success("Collection %q created", collection.Name)
}

func (s *Shell) deleteCollection(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.collections), "rmcol <n>  (run 'cols' first)")
	if i < 0 {
		return
	}

	if err := s.app.Collections.DeleteCollection(ctx, s.collections[i].ID); err != nil {
		s.fail(err)
		return
	}

	s.success("Collection %q deleted", s.collections[i].Name)
	s.collections = append(s.collections[:i], s.collections[i+1:]...)
}

func (s *Shell) collectVault(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.collections), "colvault <col#> <vault#>")
	if i < 0 {
		return
	}
	j := pickIndex(args, 1, len(s.vaults), "colvault <col#> <vault#>  (run 'list' first)")
	if j < 0 {
		return
	}

	if err := s.app.Collections.AddVaultToCollection(ctx, s.collections[i].ID, s.vaults[j].ID); err != nil {
		s.fail(err)
		return
	}

	s.success("Vault %q added to %q", s.vaults[j].Name, s.collections[i].Name)
}

func (s *Shell) uncollectVault(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.collections), "uncolvault <col#> <vault#>")
	if i < 0 {
		return
	}
	j := pickIndex(args, 1, len(s.vaults), "uncolvault <col#> <vault#>  (run 'list' first)")
	if j < 0 {
		return
	}

	if err := s.app.Collections.RemoveVaultFromCollection(ctx, s.collections[i].ID, s.vaults[j].ID); err != nil {
		s.fail(err)
		return
	}

	s.success("Vault %q removed from %q", s.vaults[j].Name, s.collections[i].Name)
}
