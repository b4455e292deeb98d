// ABOUTME: Tests for folder browser
// ABOUTME: Validates navigation, local name checks and emitted requests

package folders

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded() *Folders {
	f := New()
	f.SetFolders(0, []client.Folder{
		{ID: 1, Name: "Maths", SubfolderCount: 1, FileCount: 3},
		{ID: 2, Name: "Histoire"},
	})
	return f
}

func TestInitLoadsRoot(t *testing.T) {
	f := New()
	cmd := f.Init()
	msg, ok := cmd().(LoadMsg)
	if !ok {
		t.Fatalf("expected LoadMsg, got %T", cmd())
	}
	if msg.Parent != 0 {
		t.Errorf("expected root, got %d", msg.Parent)
	}
}

func TestOpenAndBack(t *testing.T) {
	f := loaded()

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd().(LoadMsg); msg.Parent != 1 {
		t.Errorf("expected load of folder 1, got %d", msg.Parent)
	}
	if f.Breadcrumb() != "Racine / Maths" {
		t.Errorf("unexpected breadcrumb %q", f.Breadcrumb())
	}

	_, cmd = f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if msg := cmd().(LoadMsg); msg.Parent != 0 {
		t.Errorf("expected load of root, got %d", msg.Parent)
	}

	_, cmd = f.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg at root, got %T", cmd())
	}
}

func TestStaleListingIgnored(t *testing.T) {
	f := loaded()
	f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	f.SetFolders(0, []client.Folder{{ID: 9, Name: "Périmé"}})
	if len(f.folders) != 0 {
		t.Error("expected a listing for another parent to be dropped")
	}

	f.SetFolders(1, []client.Folder{{ID: 3, Name: "Algèbre"}})
	if len(f.folders) != 1 {
		t.Error("expected listing for current parent to be kept")
	}
}

func TestCreateBlankNameRejected(t *testing.T) {
	f := loaded()
	f.Update(runes("n"))
	if f.mode != modeCreate {
		t.Fatalf("expected create mode, got %d", f.mode)
	}

	f.input.SetValue("   ")
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no request for a blank name")
	}
	if f.Error() != client.ErrEmptyFolderName.Error() {
		t.Errorf("unexpected error %q", f.Error())
	}
	if f.mode != modeCreate {
		t.Error("expected to stay in create mode")
	}
}

func TestCreate(t *testing.T) {
	f := loaded()
	f.Update(tea.KeyMsg{Type: tea.KeyEnter}) // into Maths
	f.SetFolders(1, nil)

	f.Update(runes("n"))
	f.input.SetValue(" Algèbre ")
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg, ok := cmd().(CreateMsg)
	if !ok {
		t.Fatalf("expected CreateMsg, got %T", cmd())
	}
	if msg.Parent != 1 || msg.Name != "Algèbre" {
		t.Errorf("unexpected create %+v", msg)
	}
}

func TestRename(t *testing.T) {
	f := loaded()
	f.Update(tea.KeyMsg{Type: tea.KeyDown})
	f.Update(runes("r"))

	if f.input.Value() != "Histoire" {
		t.Errorf("expected current name prefilled, got %q", f.input.Value())
	}
	f.input.SetValue("Géographie")
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg, ok := cmd().(RenameMsg)
	if !ok {
		t.Fatalf("expected RenameMsg, got %T", cmd())
	}
	if msg.ID != 2 || msg.Name != "Géographie" {
		t.Errorf("unexpected rename %+v", msg)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	f := loaded()

	f.Update(runes("d"))
	if !strings.Contains(f.View(), "Supprimer « Maths »") {
		t.Error("expected confirmation prompt")
	}
	_, cmd := f.Update(runes("n"))
	if cmd != nil {
		t.Error("expected no delete when declined")
	}

	f.Update(runes("d"))
	_, cmd = f.Update(runes("y"))
	msg, ok := cmd().(DeleteMsg)
	if !ok {
		t.Fatalf("expected DeleteMsg, got %T", cmd())
	}
	if msg.ID != 1 {
		t.Errorf("expected folder 1, got %d", msg.ID)
	}
}

func TestDeleteRecursiveToggle(t *testing.T) {
	f := loaded()

	f.Update(runes("d"))
	if !strings.Contains(f.View(), "[ ] Supprimer aussi le contenu (1 dossier(s), 3 fichier(s))") {
		t.Errorf("expected unchecked recursive option\nView:\n%s", f.View())
	}
	f.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !strings.Contains(f.View(), "[x] Supprimer aussi le contenu") {
		t.Errorf("expected checked recursive option\nView:\n%s", f.View())
	}

	_, cmd := f.Update(runes("y"))
	msg, ok := cmd().(DeleteMsg)
	if !ok {
		t.Fatalf("expected DeleteMsg, got %T", cmd())
	}
	if msg.ID != 1 || !msg.Recursive {
		t.Errorf("expected recursive delete of folder 1, got %+v", msg)
	}

	// the option resets on the next prompt
	f.Update(runes("d"))
	_, cmd = f.Update(runes("y"))
	if msg := cmd().(DeleteMsg); msg.Recursive {
		t.Error("expected recursive reset for a new confirmation")
	}
}

func TestDeleteEmptyFolderHasNoRecursiveOption(t *testing.T) {
	f := loaded()
	f.Update(tea.KeyMsg{Type: tea.KeyDown})

	f.Update(runes("d"))
	if strings.Contains(f.View(), "Supprimer aussi le contenu") {
		t.Error("expected no recursive option for an empty folder")
	}
	f.Update(tea.KeyMsg{Type: tea.KeySpace})
	_, cmd := f.Update(runes("y"))
	msg := cmd().(DeleteMsg)
	if msg.ID != 2 || msg.Recursive {
		t.Errorf("expected plain delete of folder 2, got %+v", msg)
	}
}

func TestUploadHere(t *testing.T) {
	f := loaded()
	f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := f.Update(runes("u"))
	msg, ok := cmd().(UploadHereMsg)
	if !ok {
		t.Fatalf("expected UploadHereMsg, got %T", cmd())
	}
	if msg.Parent != 1 {
		t.Errorf("expected parent 1, got %d", msg.Parent)
	}
}

func TestView(t *testing.T) {
	f := New()
	if !strings.Contains(f.View(), "Chargement") {
		t.Error("expected loading state before the listing")
	}

	f.SetFolders(0, nil)
	if !strings.Contains(f.View(), "Aucun sous-dossier") {
		t.Error("expected empty state")
	}

	f = loaded()
	view := f.View()
	if !strings.Contains(view, "Maths") || !strings.Contains(view, "3 fichier(s)") {
		t.Errorf("unexpected view %q", view)
	}
}
