package gcis

import (
	"bytes"
	"math/rand"
	"testing"
)

func mustBuild(t *testing.T, text []byte) *Grammar {
	t.Helper()
	g, err := BuildGrammar(text)
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	return g
}

func TestDecodeRoundTripLiteralScenarios(t *testing.T) {
	cases := [][]byte{
		{'a', 0},
		{'a', 'b', 'a', 'b', 0},
		[]byte("mississippi\x00"),
		append(bytes.Repeat([]byte{'a'}, 100), 0),
	}
	alphabetRun := make([]byte, 0, 256)
	for b := 1; b <= 255; b++ {
		alphabetRun = append(alphabetRun, byte(b))
	}
	alphabetRun = append(alphabetRun, 0)
	cases = append(cases, alphabetRun)

	for i, text := range cases {
		g := mustBuild(t, text)
		got := g.Decode()
		if !bytes.Equal(got, text) {
			t.Errorf("case %d: Decode() = %q, want %q", i, got, text)
		}
	}
}

func TestDecodeRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	text := make([]byte, 10000)
	for i := range text {
		text[i] = byte(1 + r.Intn(255))
	}
	text = append(text, 0)

	g := mustBuild(t, text)
	got := g.Decode()
	if !bytes.Equal(got, text) {
		t.Fatalf("Decode() produced %d bytes, want %d bytes matching input", len(got), len(text))
	}
}

func TestAlphabetRunSingleLevel(t *testing.T) {
	text := make([]byte, 0, 256)
	for b := 1; b <= 255; b++ {
		text = append(text, byte(b))
	}
	text = append(text, 0)

	g := mustBuild(t, text)
	if len(g.Levels) > 1 {
		t.Errorf("strictly increasing alphabet run should not need more than one reduction level, got %d", len(g.Levels))
	}
	if got := g.Decode(); !bytes.Equal(got, text) {
		t.Errorf("Decode() = %q, want %q", got, text)
	}
}

func TestExpansionLengthsMatchTextSize(t *testing.T) {
	text := []byte("abracadabra\x00")
	g := mustBuild(t, text)
	lens := g.ExpansionLengths()
	if lens[g.Xs] != len(text) {
		t.Errorf("rules_expansion_len[xs] = %d, want |T| = %d", lens[g.Xs], len(text))
	}
	for b := 0; b < 256; b++ {
		if lens[b] != 1 {
			t.Errorf("rules_expansion_len[%d] = %d, want 1 (terminal)", b, lens[b])
		}
	}
}

func TestRuleRHSRejectsTerminal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("RuleRHS(terminal) should panic")
		}
	}()
	g := mustBuild(t, []byte("ab\x00"))
	g.RuleRHS(0)
}

func TestExtractBatchMatchesDecode(t *testing.T) {
	text := []byte("abababab\x00")
	g := mustBuild(t, text)
	full := g.Decode()

	queries := [][2]int{{0, len(text) - 1}, {1, 2}, {0, 0}, {3, 6}}
	results := g.ExtractBatch(queries)
	for i, q := range queries {
		want := full[q[0] : q[1]+1]
		if !bytes.Equal(results[i], want) {
			t.Errorf("ExtractBatch query %v = %q, want %q", q, results[i], want)
		}
	}
}

func TestSizeInBytesPositive(t *testing.T) {
	g := mustBuild(t, []byte("banana\x00"))
	if g.SizeInBytes() <= 0 {
		t.Errorf("SizeInBytes() = %d, want > 0", g.SizeInBytes())
	}
}
