package gcis

import (
	"reflect"
	"testing"
)

func TestUnaryCodecRoundTrip(t *testing.T) {
	vals := []int{0, 3, 0, 7, 1, 0, 12}
	c := UnaryCodec{}
	data := c.EncodeInts(vals)
	if got := c.Count(data); got != len(vals) {
		t.Fatalf("Count() = %d, want %d", got, len(vals))
	}
	for i, want := range vals {
		if got := c.At(data, i); got != want {
			t.Errorf("At(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestGapCodecRoundTrip(t *testing.T) {
	vals := []int{0, 3, 0, 7, 1, 0, 12, 255}
	c := GapCodec{}
	data := c.EncodeInts(vals)
	if got := c.Count(data); got != len(vals) {
		t.Fatalf("Count() = %d, want %d", got, len(vals))
	}
	for i, want := range vals {
		if got := c.At(data, i); got != want {
			t.Errorf("At(%d) = %d, want %d", i, got, want)
		}
	}
}

func encodeDecodeLevel(t *testing.T, rules [][]int, codec IntCodec) [][]int {
	t.Helper()
	el := EncodeLevel(Level{Rules: rules, Base: 256}, codec)
	return DecodeLevel(el)
}

func TestEncodeDecodeLevelRoundTrip(t *testing.T) {
	rules := [][]int{
		{97, 98},
		{97, 98, 99},
		{97, 98, 99, 100},
		{98, 99},
	}
	for _, codec := range []IntCodec{UnaryCodec{}, GapCodec{}} {
		got := encodeDecodeLevel(t, rules, codec)
		if !reflect.DeepEqual(got, rules) {
			t.Errorf("codec %s: DecodeLevel() = %v, want %v", codec.Name(), got, rules)
		}
	}
}

func TestEncodeDecodeLevelSingleRule(t *testing.T) {
	rules := [][]int{{1, 2, 3}}
	got := encodeDecodeLevel(t, rules, UnaryCodec{})
	if !reflect.DeepEqual(got, rules) {
		t.Errorf("DecodeLevel() = %v, want %v", got, rules)
	}
}

func TestGrammarFileRoundTrip(t *testing.T) {
	text := []byte("mississippi\x00")
	g, err := BuildGrammar(text)
	if err != nil {
		t.Fatalf("BuildGrammar: %v", err)
	}
	buf := SaveGrammar(g, UnaryCodec{})
	g2, err := LoadGrammar(buf)
	if err != nil {
		t.Fatalf("LoadGrammar: %v", err)
	}
	if g2.Xs != g.Xs {
		t.Errorf("Xs = %d, want %d", g2.Xs, g.Xs)
	}
	got := g2.Decode()
	if string(got) != string(text) {
		t.Errorf("round-tripped Decode() = %q, want %q", got, text)
	}
}

func TestLoadGrammarRejectsBadMagic(t *testing.T) {
	_, err := LoadGrammar([]byte("nope"))
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
}
