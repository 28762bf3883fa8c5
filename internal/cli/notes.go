package cli

import (
	"context"
	"fmt"
	"os"
)

func (s *Shell) listNotes(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.vaults), "notes <vault#>  (run 'list' first)")
	if i < 0 {
		return
	}

	notes, err := s.app.Notes.GetNotesDecrypted(ctx, s.vaults[i].ID, s.user.ID)
	if err != nil {
		s.fail(err)
		return
	}
	s.notes = notes

	if len(notes) == 0 {
		fmt.Println("No notes in this vault.")
		return
	}
	for j, n := range notes {
		fmt.Printf("%3d. %s\n", j+1, n.Title)
	}
}

func (s *Shell) addNote(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.vaults), "addnote <vault#>  (run 'list' first)")
	if i < 0 {
		return
	}

	title, err := getSimpleText(s.reader, "Title", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	content, err := getMultiline(s.reader, "Content", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	note, err := s.app.Notes.CreateNote(ctx, s.vaults[i].ID, title, content, s.user.ID)
	if err != nil {
		s.fail(err)
		return
	}

	s.success("Note %q created", note.Title)
}

func (s *Shell) showNote(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.notes), "shownote <n>  (run 'notes <vault#>' first)")
	if i < 0 {
		return
	}

	note, err := s.app.Notes.GetNoteWithContent(ctx, s.notes[i].ID, s.user.ID)
	if err != nil {
		s.fail(err)
		return
	}

	fmt.Println("#", note.Title)
	fmt.Println(note.Content)
}

func (s *Shell) editNote(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.notes), "editnote <n>  (run 'notes <vault#>' first)")
	if i < 0 {
		return
	}

	title, err := getSimpleText(s.reader, "New title", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}
	content, err := getMultiline(s.reader, "New content", os.Stdout)
	if err != nil {
		s.fail(err)
		return
	}

	if err := s.app.Notes.UpdateNote(ctx, s.notes[i].ID, title, content, s.user.ID); err != nil {
		s.fail(err)
		return
	}

	s.success("Note updated")
}

func (s *Shell) deleteNote(ctx context.Context, args []string) {
	if !s.requireLogin() {
		return
	}

	i := pickIndex(args, 0, len(s.notes), "rmnote <n>  (run 'notes <vault#>' first)")
	if i < 0 {
		return
	}

	if err := s.app.Notes.DeleteNote(ctx, s.notes[i].ID); err != nil {
		s.fail(err)
		return
	}

	s.success("Note %q deleted", s.notes[i].Title)
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
}
