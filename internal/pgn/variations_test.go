package pgn

import (
	"reflect"
	"testing"
)

// ruyLopez is the Morphy Defense with the open variation as a side branch.
const ruyLopez = "1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 4. Ba4 b5 ( 4... Nf6 5. O-O Nxe4 6. Re1 Nd6 ) 5. Bb3 Nf6 6. O-O"

func TestMainlines_SingleLine(t *testing.T) {
	got := ExtractMainlines("1. e4 e5 2. Nf3 Nc6")

	want := []string{"e4 e5 Nf3 Nc6"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}

func TestMainlines_OneBranch(t *testing.T) {
	got := ExtractMainlines(ruyLopez)

	want := []string{
		"e4 e5 Nf3 Nc6 Bb5 a6 Ba4 b5 Bb3 Nf6 O-O",
		"e4 e5 Nf3 Nc6 Bb5 a6 Ba4 Nf6 O-O Nxe4 Re1 Nd6",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}

func TestMainlines_SiblingBranches(t *testing.T) {
	got := ExtractMainlines("1. e4 e5 ( 1... c5 ) ( 1... e6 ) 2. Nf3")

	want := []string{
		"e4 e5 Nf3",
		"e4 c5",
		"e4 e6",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}

func TestMainlines_NestedBranch(t *testing.T) {
	got := ExtractMainlines("1. e4 e5 2. Nf3 ( 2. Nc3 Nf6 ( 2... Nc6 ) ) Nc6")

	want := []string{
		"e4 e5 Nf3 Nc6",
		"e4 e5 Nc3 Nf6",
		"e4 e5 Nc3 Nc6",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}

func TestMainlines_Empty(t *testing.T) {
	got := ExtractMainlines("")
	if len(got) != 0 {
		t.Errorf("mainlines = %v, want none", got)
	}
}

func TestMainlines_EmptyBranchDiscarded(t *testing.T) {
	got := ExtractMainlines("1. e4 e5 ( ) 2. Nf3")

	want := []string{"e4 e5 Nf3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}

func TestMainlines_UnmatchedCloseIgnored(t *testing.T) {
	got := ExtractMainlines("1. e4 e5 ) 2. Nf3")

	want := []string{"e4 e5 Nf3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}

func TestMainlines_UnclosedBranchImplicitlyClosed(t *testing.T) {
	got := ExtractMainlines("1. e4 e5 ( 1... c5 2. Nf3")

	want := []string{
		"e4 e5",
		"e4 c5 Nf3",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}

func TestMainlines_DuplicateBranchesDeduplicated(t *testing.T) {
	got := ExtractMainlines("1. e4 e5 ( 1... c5 ) ( 1... c5 )")

	want := []string{
		"e4 e5",
		"e4 c5",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mainlines = %v, want %v", got, want)
	}
}
