package materialize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kudosx/claude-skill-browser-use/acquire"
)

func stagedClip(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("video bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestVideoPublish_TitleBasedName(t *testing.T) {
	dir := t.TempDir()
	stage := t.TempDir()
	vt := NewVideoTransfer(dir, QualityBest, nil)

	staged := stagedClip(t, stage, "raw-output.mp4")
	c := acquire.Candidate{
		SourceURL: "https://www.youtube.com/watch?v=a",
		Meta:      acquire.Metadata{Title: "Go Scheduler: Deep Dive"},
	}

	dest, size, err := vt.publish(staged, c)
	if err != nil {
		t.Fatal(err)
	}
	if dest != filepath.Join(dir, "Go Scheduler_ Deep Dive.mp4") {
		t.Errorf("dest = %q", dest)
	}
	if size != int64(len("video bytes")) {
		t.Errorf("size = %d", size)
	}
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("staged file not moved")
	}
}

func TestVideoPublish_UnicodeTitleSurvives(t *testing.T) {
	dir := t.TempDir()
	vt := NewVideoTransfer(dir, QualityBest, nil)

	staged := stagedClip(t, t.TempDir(), "out.mp4")
	c := acquire.Candidate{Meta: acquire.Metadata{Title: "日本語講座"}}

	dest, _, err := vt.publish(staged, c)
	if err != nil {
		t.Fatal(err)
	}
	if dest != filepath.Join(dir, "日本語講座.mp4") {
		t.Errorf("dest = %q, non-ASCII title must be preserved", dest)
	}
}

func TestVideoPublish_SameTitleGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	stage := t.TempDir()
	vt := NewVideoTransfer(dir, QualityBest, nil)
	c := acquire.Candidate{Meta: acquire.Metadata{Title: "Lofi Mix"}}

	first, _, err := vt.publish(stagedClip(t, stage, "a.mp4"), c)
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := vt.publish(stagedClip(t, stage, "b.mp4"), c)
	if err != nil {
		t.Fatal(err)
	}

	if first != filepath.Join(dir, "Lofi Mix.mp4") {
		t.Errorf("first = %q", first)
	}
	if second != filepath.Join(dir, "Lofi Mix (2).mp4") {
		t.Errorf("second = %q, want a disambiguating suffix, not an overwrite", second)
	}
	for _, p := range []string{first, second} {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Errorf("artifact %q missing or empty", p)
		}
	}
}

func TestVideoPublish_NoTitleFallsBackToStagedName(t *testing.T) {
	dir := t.TempDir()
	vt := NewVideoTransfer(dir, QualityBest, nil)

	staged := stagedClip(t, t.TempDir(), "Some Upload.mp4")
	dest, _, err := vt.publish(staged, acquire.Candidate{})
	if err != nil {
		t.Fatal(err)
	}
	if dest != filepath.Join(dir, "Some Upload.mp4") {
		t.Errorf("dest = %q", dest)
	}
}

func TestSoleFile(t *testing.T) {
	dir := t.TempDir()
	if got := soleFile(dir); got != "" {
		t.Errorf("empty dir = %q, want \"\"", got)
	}

	p := stagedClip(t, dir, "only.mp4")
	if got := soleFile(dir); got != p {
		t.Errorf("soleFile = %q, want %q", got, p)
	}

	stagedClip(t, dir, "second.mp4")
	if got := soleFile(dir); got != "" {
		t.Errorf("two files = %q, want \"\"", got)
	}
}
