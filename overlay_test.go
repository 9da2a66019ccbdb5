package gcis

import "testing"

func mustBuildOverlay(t *testing.T, g *Grammar, text []byte) *Overlay {
	t.Helper()
	ov, err := BuildOverlay(g, text)
	if err != nil {
		t.Fatalf("BuildOverlay: %v", err)
	}
	return ov
}

func TestOverlayPiInvariants(t *testing.T) {
	text := []byte("mississippi\x00")
	g := mustBuild(t, text)
	ov := mustBuildOverlay(t, g, g.Decode())

	total := g.TotalRules()
	if len(ov.Pi) != total {
		t.Fatalf("len(Pi) = %d, want %d", len(ov.Pi), total)
	}
	if ov.Pi[0] != g.Xs {
		t.Errorf("Pi[0] = %d, want xs = %d", ov.Pi[0], g.Xs)
	}
	for b := 0; b < 256; b++ {
		if ov.Pi[1+b] != b {
			t.Errorf("Pi[%d] = %d, want identity terminal %d", 1+b, ov.Pi[1+b], b)
		}
	}
	for r, slot := range ov.PiInv {
		if slot == -1 {
			t.Errorf("PiInv[%d] unvisited; every rule should be reachable from xs", r)
			continue
		}
		if ov.Pi[slot] != r {
			t.Errorf("Pi[PiInv[%d]] = %d, want %d", r, ov.Pi[slot], r)
		}
	}
}

func TestOverlayFoccSetBitsMatchTotalRules(t *testing.T) {
	text := []byte("banana\x00")
	g := mustBuild(t, text)
	ov := mustBuildOverlay(t, g, g.Decode())

	if got, want := ov.Focc.Ones(), g.TotalRules(); got != want {
		t.Errorf("Focc.Ones() = %d, want total_rules = %d", got, want)
	}
}

func TestOverlayRulesExpansionLenMatchesText(t *testing.T) {
	text := []byte("abracadabra\x00")
	g := mustBuild(t, text)
	ov := mustBuildOverlay(t, g, g.Decode())

	if got, want := ov.RulesExpansionLen[g.Xs], len(text); got != want {
		t.Errorf("RulesExpansionLen[xs] = %d, want |T| = %d", got, want)
	}
}

func TestOverlayStrIsSubsequenceOfText(t *testing.T) {
	text := []byte("aaaa\x00")
	g := mustBuild(t, text)
	ov := mustBuildOverlay(t, g, g.Decode())

	if len(ov.Str) == 0 {
		t.Fatal("Str should contain at least the sentinel terminal leaf")
	}
	j := 0
	for _, b := range ov.Str {
		for j < len(text) && text[j] != b {
			j++
		}
		if j == len(text) {
			t.Errorf("Str = %q is not a subsequence of T = %q", ov.Str, text)
			break
		}
		j++
	}
}

func TestOverlayRulesSortedReverseLex(t *testing.T) {
	text := []byte("abracadabra\x00")
	g := mustBuild(t, text)
	ov := mustBuildOverlay(t, g, g.Decode())

	if len(ov.Rules) != g.Xs-256+1 {
		t.Fatalf("len(ov.Rules) = %d, want %d (one per non-terminal plus the top rule)", len(ov.Rules), g.Xs-256+1)
	}

	seen := make(map[int]bool, len(ov.Rules))
	for _, r := range ov.Rules {
		if r.ID < 256 || r.ID > g.Xs {
			t.Errorf("rule id %d out of non-terminal range [256, %d]", r.ID, g.Xs)
		}
		seen[r.ID] = true
		if got, want := r.Len, ov.RulesExpansionLen[r.ID]; got != want {
			t.Errorf("rule %d: Len = %d, want %d", r.ID, got, want)
		}
	}
	if len(seen) != len(ov.Rules) {
		t.Errorf("ov.Rules has duplicate ids: %d distinct of %d entries", len(seen), len(ov.Rules))
	}

	rev := reverseBytes(g.Decode())
	infos := rulePositionsInRevText(g, ov, len(rev))
	naive := naiveReverseLexOrder(rev, toSuffixInfos(infos))
	for i, idx := range naive {
		wantID := infos[idx].ID
		if ov.Rules[i].ID != wantID {
			t.Errorf("position %d: ov.Rules ID = %d, want %d (naive reverse-lex order)", i, ov.Rules[i].ID, wantID)
		}
	}
}

func TestWaveletTreeAccessRoundTrip(t *testing.T) {
	seq := []int{3, 1, 2, 0, 3, 3, 1, 2}
	wt := BuildWaveletTree(seq, widthFor(3))
	for i, want := range seq {
		if got := wt.Access(i); got != want {
			t.Errorf("Access(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestWaveletTreeRankSelect(t *testing.T) {
	seq := []int{0, 1, 0, 2, 1, 0, 2, 2}
	wt := BuildWaveletTree(seq, widthFor(2))

	wantRank := 0
	for i := 0; i <= len(seq); i++ {
		if got := wt.Rank(i, 0); got != wantRank {
			t.Errorf("Rank(%d, 0) = %d, want %d", i, got, wantRank)
		}
		if i < len(seq) && seq[i] == 0 {
			wantRank++
		}
	}

	for k := 1; k <= 3; k++ {
		pos := wt.Select(k, 2)
		if seq[pos] != 2 {
			t.Errorf("Select(%d, 2) = %d, but seq[%d] = %d", k, pos, pos, seq[pos])
		}
		if wt.Rank(pos+1, 2) != k {
			t.Errorf("Select(%d, 2) = %d is not the %d-th occurrence", k, pos, k)
		}
	}
}
