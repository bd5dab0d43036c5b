package models

import "testing"

func TestDocumentTitleInFallsBackToOriginalFilename(t *testing.T) {
	d := &Document{
		OriginalFilename: "notes-cours.pdf",
		FileType:         "pdf",
		Translations: []DocumentTranslation{
			{Locale: "fr", Title: "Notes de cours"},
		},
	}

	if got := d.TitleIn("fr"); got != "Notes de cours" {
		t.Fatalf("TitleIn(fr) = %q", got)
	}
	// No en row: the original filename is the only base field documents have.
	if got := d.TitleIn("en"); got != "notes-cours.pdf" {
		t.Fatalf("TitleIn(en) = %q", got)
	}
}

func TestFileTypeHelpers(t *testing.T) {
	for _, ext := range []string{"pdf", "zip", "doc", "docx"} {
		if !IsAllowedFileType(ext) {
			t.Errorf("expected %s to be allowed", ext)
		}
	}
	for _, ext := range []string{"exe", "sh", "", "PDF"} {
		if IsAllowedFileType(ext) {
			t.Errorf("expected %q to be rejected", ext)
		}
	}

	if (&Document{FileType: "zip"}).FileIcon() != "file-archive" {
		t.Fatal("expected file-archive icon for zip")
	}
	if (&Document{FileType: "odt"}).FileIcon() != "file" {
		t.Fatal("expected generic icon for unknown type")
	}
}
