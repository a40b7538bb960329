package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolve_ChangedSinceMergeBase(t *testing.T) {
	dir := setupRepo(t)
	eng, _, _ := testEngine(t, "")

	gitIn(t, dir, "checkout", "-b", "feature")
	writeRepoFile(t, dir, "app.py", "x = 2\n")
	writeRepoFile(t, dir, "pkg/extra.py", "z = 3\n")
	writeRepoFile(t, dir, "notes.txt", "edited\n")
	gitIn(t, dir, "add", ".")
	gitIn(t, dir, "commit", "-m", "feature work")

	got, err := eng.Resolve(Selection{})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := []string{"app.py", "pkg/extra.py"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_SinceHeadIsEmpty(t *testing.T) {
	setupRepo(t)
	eng, _, _ := testEngine(t, "")
	eng.Config.Since = "HEAD"

	got, err := eng.Resolve(Selection{})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Resolve since HEAD = %v, want empty", got)
	}
}

func TestResolve_AllFiles(t *testing.T) {
	dir := setupRepo(t)
	eng, _, _ := testEngine(t, "")

	// Formattable but untracked, so all-files mode must skip it.
	writeRepoFile(t, dir, "scratch.py", "s = 1\n")

	got, err := eng.Resolve(Selection{AllFiles: true})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := []string{"app.py", "pkg/util.py"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_ExplicitFileBypassesScope(t *testing.T) {
	setupRepo(t)
	eng, _, _ := testEngine(t, "")

	got, err := eng.Resolve(Selection{File: "notes.txt"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := []string{"notes.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_ExplicitFileMissing(t *testing.T) {
	setupRepo(t)
	eng, _, _ := testEngine(t, "")

	_, err := eng.Resolve(Selection{File: "nope.py"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.Path != "nope.py" {
		t.Errorf("NotFoundError path = %q, want nope.py", nf.Path)
	}
}

func TestResolve_DuplicateBasenames(t *testing.T) {
	dir := setupRepo(t)
	eng, _, _ := testEngine(t, "")

	gitIn(t, dir, "checkout", "-b", "feature")
	writeRepoFile(t, dir, "alpha/dup.py", "a = 1\n")
	writeRepoFile(t, dir, "beta/dup.py", "b = 2\n")
	gitIn(t, dir, "add", ".")
	gitIn(t, dir, "commit", "-m", "clashing names")

	_, err := eng.Resolve(Selection{})
	if err == nil {
		t.Fatal("expected duplicate-name error")
	}
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want *DuplicateNameError", err)
	}
	if dup.Name != "dup.py" {
		t.Errorf("DuplicateNameError name = %q, want dup.py", dup.Name)
	}
}
