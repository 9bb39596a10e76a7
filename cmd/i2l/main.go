// Command i2l loads and runs a stack-oriented bytecode object file.
// Grounded on the teacher's root main.go (flag parsing, defer/recover
// wrapping, os.Exit(code) on completion) rewired onto cobra, the way
// day61_container_runtime and day65_distributed_filesystem build their
// CLI surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"i2l/internal/machine"
)

// onceFlag is a pflag.Value that remembers how many times Set was called,
// so a repeated flag (e.g. "-i a -i b") can be rejected with BAD_CMD_LINE
// instead of pflag's default last-write-wins behavior.
type onceFlag struct {
	value string
	count int
}

func (f *onceFlag) String() string { return f.value }
func (f *onceFlag) Type() string   { return "string" }
func (f *onceFlag) Set(v string) error {
	f.value = v
	f.count++
	return nil
}

func main() {
	var tracePath, diskIn, diskOut onceFlag

	root := &cobra.Command{
		Use:           "i2l <object-file>",
		Short:         "Run a stack-oriented bytecode object file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range []struct {
				name string
				flag *onceFlag
			}{{"trace", &tracePath}, {"input", &diskIn}, {"output", &diskOut}} {
				if f.flag.count > 1 {
					return fmt.Errorf("flag --%s given more than once", f.name)
				}
			}
			code, err := run(args[0], tracePath.value, diskIn.value, diskOut.value)
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	root.Flags().Var(&tracePath, "trace", "write a per-instruction trace to this file")
	root.Flags().VarP(&diskIn, "input", "i", "disk device input file")
	root.Flags().VarP(&diskOut, "output", "o", "disk device output file")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "i2l: %v\n", err)
		os.Exit(int(machine.ErrBadCmdLine))
	}
}

func run(objectPath, tracePath, diskIn, diskOut string) (int, error) {
	cfg := machine.Config{DiskInPath: diskIn, DiskOutPath: diskOut}

	var traceFile *os.File
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return int(machine.ErrBadCmdLine), fmt.Errorf("opening trace file: %w", err)
		}
		traceFile = f
		defer traceFile.Close()
		cfg.Trace = machine.NewFileSink(traceFile)
	}

	m := machine.NewInterpreter(cfg)

	if f := machine.LoadFile(m, objectPath); f != nil {
		fmt.Fprintf(os.Stderr, "i2l: %s\n", f.Error())
		return int(f.Kind), nil
	}

	return machine.Interp("i2l", m), nil
}
