// Command gcis is the CLI driver of spec.md §6: a single executable
// with mutually-exclusive compress/decompress/extract modes over the
// GCIS grammar codec. Flag parsing and the optional memory-profile hook
// follow cmd/bench/main.go's style (bare stdlib flag, no CLI framework,
// runtime/pprof).
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/katerega/GCIS"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  gcis -c IN OUT        compress IN to OUT")
	fmt.Fprintln(os.Stderr, "  gcis -d IN OUT        decompress IN to OUT")
	fmt.Fprintln(os.Stderr, "  gcis -s IN OUT        decompress IN, emit SA(T) to OUT")
	fmt.Fprintln(os.Stderr, "  gcis -l IN OUT        decompress IN, emit SA(T) and LCP(T) to OUT")
	fmt.Fprintln(os.Stderr, "  gcis -A IN OUT        build SA(IN) directly via SACA")
	fmt.Fprintln(os.Stderr, "  gcis -e ENC QUERY     load ENC, answer [l r] queries from QUERY")
}

func main() {
	c := flag.Bool("c", false, "compress IN to OUT")
	d := flag.Bool("d", false, "decompress IN to OUT")
	s := flag.Bool("s", false, "decompress IN, emit SA(T) to OUT")
	l := flag.Bool("l", false, "decompress IN, emit SA(T) and LCP(T) to OUT")
	a := flag.Bool("A", false, "build SA(IN) directly via SACA")
	e := flag.Bool("e", false, "load ENC, answer [l r] queries from QUERY")
	verify := flag.Bool("verify", false, "self-check SA/LCP sortedness before writing output")
	memprofile := flag.String("memprofile", "", "write a heap profile to file after the operation")
	flag.Parse()

	modes := 0
	for _, v := range []bool{*c, *d, *s, *l, *a, *e} {
		if v {
			modes++
		}
	}
	if modes != 1 || flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}
	arg1, arg2 := flag.Arg(0), flag.Arg(1)

	var err error
	start := time.Now()
	switch {
	case *c:
		err = runCompress(arg1, arg2)
	case *d:
		err = runDecompress(arg1, arg2)
	case *s:
		err = runDecompressSA(arg1, arg2, *verify)
	case *l:
		err = runDecompressSALCP(arg1, arg2, *verify)
	case *a:
		err = runSACA(arg1, arg2, *verify)
	case *e:
		err = runExtract(arg1, arg2)
	}
	elapsed := time.Since(start)

	if *memprofile != "" {
		f, mErr := os.Create(*memprofile)
		if mErr == nil {
			pprof.WriteHeapProfile(f)
			f.Close()
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "gcis:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "gcis: done in %s\n", elapsed)
}

func runCompress(in, out string) error {
	text, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	g, err := gcis.BuildGrammar(text)
	if err != nil {
		return err
	}
	buf := gcis.SaveGrammar(g, gcis.UnaryCodec{})
	if err := os.WriteFile(out, buf, 0o644); err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	fmt.Fprintf(os.Stderr, "gcis: compressed %d bytes -> %d bytes (grammar size %d bytes)\n",
		len(text), len(buf), g.SizeInBytes())
	return nil
}

func runDecompress(in, out string) error {
	g, err := loadGrammarFile(in)
	if err != nil {
		return err
	}
	text := g.Decode()
	if err := os.WriteFile(out, text, 0o644); err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	fmt.Fprintf(os.Stderr, "gcis: decompressed to %d bytes\n", len(text))
	return nil
}

func runDecompressSA(in, out string, verify bool) error {
	g, err := loadGrammarFile(in)
	if err != nil {
		return err
	}
	text, sa, err := g.DecodeSACA()
	if err != nil {
		return err
	}
	if verify {
		if err := gcis.VerifySuffixArray(sa, text); err != nil {
			return err
		}
	}
	return writeSAFile(out, sa, nil)
}

func runDecompressSALCP(in, out string, verify bool) error {
	g, err := loadGrammarFile(in)
	if err != nil {
		return err
	}
	text, sa, lcp, err := g.DecodeSACALCP()
	if err != nil {
		return err
	}
	if verify {
		if err := gcis.VerifySuffixArray(sa, text); err != nil {
			return err
		}
		if err := gcis.VerifyLCPArray(sa, lcp, text); err != nil {
			return err
		}
	}
	return writeSAFile(out, sa, lcp)
}

func runSACA(in, out string, verify bool) error {
	text, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	sa, err := gcis.BuildSuffixArray(text)
	if err != nil {
		return err
	}
	if verify {
		if err := gcis.VerifySuffixArray(sa, text); err != nil {
			return err
		}
	}
	return writeSAFile(out, sa, nil)
}

func runExtract(encPath, queryPath string) error {
	g, err := loadGrammarFile(encPath)
	if err != nil {
		return err
	}
	queryFile, err := os.Open(queryPath)
	if err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	defer queryFile.Close()

	var queries [][2]int
	sc := bufio.NewScanner(queryFile)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		l, err1 := strconv.Atoi(fields[0])
		r, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return gcis.ErrInvalidArgument
		}
		queries = append(queries, [2]int{l, r})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}

	results := g.ExtractBatch(queries)
	for _, r := range results {
		fmt.Println(string(r))
	}
	return nil
}

func loadGrammarFile(path string) (*gcis.Grammar, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	return gcis.LoadGrammar(buf)
}

// writeSAFile writes the SA/LCP output format of spec.md §6: an 8-byte
// n, n little-endian 32-bit signed SA entries, and (if lcp != nil)
// another n for LCP.
func writeSAFile(path string, sa, lcp []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(sa)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	if err := writeInt32Slice(w, sa); err != nil {
		return err
	}
	if lcp != nil {
		padded := make([]int, len(sa))
		copy(padded, lcp)
		if err := writeInt32Slice(w, padded); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
	}
	return nil
}

func writeInt32Slice(w *bufio.Writer, vals []int) error {
	var buf [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("%w: %v", gcis.ErrIoFailure, err)
		}
	}
	return nil
}
