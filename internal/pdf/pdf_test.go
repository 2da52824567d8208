package pdf

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestIsPDF(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"pdf", "%PDF-1.7\n...", true},
		{"png", "\x89PNG\r\n", false},
		{"short", "%P", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := IsPDF(path)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("IsPDF = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := IsPDF(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func fakePoppler(t *testing.T, body string) *PopplerPDFConverter {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake pdftoppm needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "pdftoppm")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return &PopplerPDFConverter{bin: bin, stderr: io.Discard}
}

func TestConvertToImagesOrdersPages(t *testing.T) {
	c := fakePoppler(t,
		"[ \"$1\" = -jpeg ] && [ \"$3\" = 300 ] || exit 2\n"+
			"printf two > \"$5-02.jpg\"\n"+
			"printf one > \"$5-01.jpg\"\n"+
			"printf ten > \"$5-10.jpg\"\n")

	pages, err := c.ConvertToImages(context.Background(), "doc.pdf")
	if err != nil {
		t.Fatalf("ConvertToImages: %v", err)
	}
	var got []string
	for _, p := range pages {
		got = append(got, string(p.Bytes))
	}
	want := []string{"one", "two", "ten"}
	if len(got) != len(want) {
		t.Fatalf("pages = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d = %q, want %q", i, got[i], want[i])
		}
	}
	if pages[0].MimeType != "image/jpeg" || pages[0].FileName != "page-01.jpg" {
		t.Errorf("page meta = %+v", pages[0])
	}
}

func TestConvertToImagesFailures(t *testing.T) {
	if _, err := fakePoppler(t, "exit 1\n").ConvertToImages(context.Background(), "doc.pdf"); err == nil {
		t.Error("expected error on pdftoppm failure")
	}
	if _, err := fakePoppler(t, "exit 0\n").ConvertToImages(context.Background(), "doc.pdf"); err == nil {
		t.Error("expected error when no pages are produced")
	}
}
