//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const demoCorpus = `12345|t|BRCA1 and TP53 in breast cancer
12345|a|TP53 is mutated.
12345	0	5	BRCA1	Gene	672
12345	25	31	cancer	Disease	MESH:D001943

`

// Demo builds the binary and runs parse, segment, and query over a small
// sample corpus in a temporary directory.
func Demo() error {
	mg.Deps(Build)

	dir, err := os.MkdirTemp("", "pubtator-demo-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	corpus := filepath.Join(dir, "demo.txt")
	if err := os.WriteFile(corpus, []byte(demoCorpus), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", corpus, err)
	}

	bin := filepath.Join(binDir, binName)
	steps := [][]string{
		{"parse", corpus},
		{"segment", corpus, "--pattern", "mutated"},
		{"query", corpus, "--stats"},
	}
	for _, args := range steps {
		fmt.Printf("\n$ %s %v\n", binName, args)
		if err := sh.RunV(bin, args...); err != nil {
			return err
		}
	}
	return nil
}
