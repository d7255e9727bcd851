package main

import (
	"fmt"
	"os"

	"github.com/arloliu/zbewalgo/combination"
)

func (e env) runCombinations(args []string) error {
	var (
		c        common
		commands []string
		load     string
		save     string
	)

	flags := newFlagSet("combinations", e.stderr, &c)
	flags.StringArrayVar(&commands, "exec", nil, `table command such as "add bwt-mtf-rle", "set rle" or "reset" (repeatable)`)
	flags.StringVar(&load, "load", "", "replace the table with a CBOR snapshot file")
	flags.StringVar(&save, "save", "", "write the resulting table as a CBOR snapshot file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	_, eng, err := e.setup(&c)
	if err != nil {
		return err
	}
	reg := eng.Registry()

	if load != "" {
		data, err := os.ReadFile(load)
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}

		combos, err := combination.UnmarshalSnapshot(data, reg)
		if err != nil {
			return fmt.Errorf("%s: %w", load, err)
		}

		if err := eng.Table().ReplaceAll(combos); err != nil {
			return err
		}
	}

	for _, line := range commands {
		if _, err := eng.Exec(line); err != nil {
			return fmt.Errorf("%q: %w", line, err)
		}
	}

	if save != "" {
		data, err := combination.MarshalSnapshot(eng.Table().Snapshot(), reg)
		if err != nil {
			return err
		}

		if err := os.WriteFile(save, data, 0o644); err != nil { //nolint: gosec
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}

	_, err = fmt.Fprint(e.stdout, eng.Table().Format(reg))

	return err
}
