package diff

import (
	"reflect"
	"strings"
	"testing"
)

func TestCountEditsIdentical(t *testing.T) {
	for _, text := range []string{"", "one", "The cat sat.", "  spaced   out  "} {
		ins, del := CountEdits(text, text)
		if ins != 0 || del != 0 {
			t.Fatalf("identical %q: got (%d, %d), want (0, 0)", text, ins, del)
		}
	}
}

func TestCountEditsEmptySides(t *testing.T) {
	ins, del := CountEdits("three little words", "")
	if ins != 0 || del != 3 {
		t.Fatalf("empty edited: got (%d, %d), want (0, 3)", ins, del)
	}
	ins, del = CountEdits("", "three little words")
	if ins != 3 || del != 0 {
		t.Fatalf("empty original: got (%d, %d), want (3, 0)", ins, del)
	}
}

func TestCountEditsInsertion(t *testing.T) {
	ins, del := CountEdits("The cat sat.", "The cat sat. on the mat.")
	if ins != 3 || del != 0 {
		t.Fatalf("got (%d, %d), want (3, 0)", ins, del)
	}
}

func TestCountEditsReplacement(t *testing.T) {
	ins, del := CountEdits("the quick brown fox", "the slow brown fox")
	if ins != 1 || del != 1 {
		t.Fatalf("got (%d, %d), want (1, 1)", ins, del)
	}
}

func TestCountEditsMoveIsDeletePlusInsert(t *testing.T) {
	// No move detection: a relocated token is one deletion plus one insertion.
	ins, del := CountEdits("alpha beta gamma", "beta gamma alpha")
	if ins != 1 || del != 1 {
		t.Fatalf("got (%d, %d), want (1, 1)", ins, del)
	}
}

func TestAlignDeterministic(t *testing.T) {
	original := "a b c d e f"
	edited := "a x c y e z"
	first := Align(original, edited)
	second := Align(original, edited)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("alignment not deterministic:\n%v\n%v", first, second)
	}
}

func TestAlignCoversAllTokens(t *testing.T) {
	original := "one two three"
	edited := "one three four"
	ops := Align(original, edited)
	var fromOriginal, fromEdited []string
	for _, op := range ops {
		switch op.Kind {
		case OpEqual:
			fromOriginal = append(fromOriginal, op.Token)
			fromEdited = append(fromEdited, op.Token)
		case OpDelete:
			fromOriginal = append(fromOriginal, op.Token)
		case OpInsert:
			fromEdited = append(fromEdited, op.Token)
		}
	}
	if got := strings.Join(fromOriginal, " "); got != original {
		t.Fatalf("original side not preserved: %q", got)
	}
	if got := strings.Join(fromEdited, " "); got != edited {
		t.Fatalf("edited side not preserved: %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if out := Render("", ""); out != "" {
		t.Fatalf("expected no fragments for empty inputs, got %q", out)
	}
}

func TestRenderContainsAllTokens(t *testing.T) {
	out := Render("the quick fox", "the slow fox")
	for _, token := range []string{"the", "quick", "slow", "fox"} {
		if !strings.Contains(out, token) {
			t.Fatalf("rendered diff missing %q: %s", token, out)
		}
	}
}
