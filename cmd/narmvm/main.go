// Command narmvm runs, steps, disassembles, or debugs ARMv6-M Thumb
// binary images. A cobra root command with one subcommand per verb (see
// DESIGN.md for its grounding), wired to the narmvm
// config/loader/vm/debugger packages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/narmvm/config"
	"github.com/lookbusy1344/narmvm/debugger"
	"github.com/lookbusy1344/narmvm/loader"
	"github.com/lookbusy1344/narmvm/vm"
)

var (
	flagConfigPath string
	flagEntry      uint32
	flagMaxCycles  uint64
	flagGasBudget  uint64
)

func main() {
	root := &cobra.Command{
		Use:   "narmvm",
		Short: "ARMv6-M Thumb emulator",
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a TOML config file (defaults to the platform config dir)")
	root.PersistentFlags().Uint32Var(&flagEntry, "entry", 0, "entry point override (defaults to the code segment base)")
	root.PersistentFlags().Uint64Var(&flagMaxCycles, "max-cycles", 0, "cycle budget override (0 keeps the config default)")
	root.PersistentFlags().Uint64Var(&flagGasBudget, "gas", 0, "gas budget override; implies gas metering is enabled")

	root.AddCommand(newRunCmd(), newStepCmd(), newDisasmCmd(), newDebugCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if flagConfigPath != "" {
		return config.LoadFrom(flagConfigPath)
	}
	return config.Load()
}

func loadImage(path string, cfg *config.Config) (*vm.VM, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	entry := flagEntry
	if entry == 0 {
		entry = cfg.Memory.CodeBase
	}
	if flagGasBudget != 0 {
		cfg.Execution.GasEnabled = true
		cfg.Execution.GasBudget = flagGasBudget
	}

	machine := vm.NewVM(vm.NewMemorySystem())
	img := loader.Image{Entry: entry, Code: code}
	if err := loader.LoadImage(machine, cfg, img); err != nil {
		return nil, err
	}
	return machine, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <image>",
		Short: "load and run an image to completion or SVC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			machine, err := loadImage(args[0], cfg)
			if err != nil {
				return err
			}
			maxCycles := flagMaxCycles
			if maxCycles == 0 {
				maxCycles = cfg.Execution.MaxCycles
			}
			svc, err := machine.Execute(maxCycles)
			if err != nil {
				fmt.Println(machine.DumpState())
				return err
			}
			fmt.Printf("svc #%d\n", svc)
			fmt.Println(machine.DumpState())
			return nil
		},
	}
}

func newStepCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "step <image>",
		Short: "load an image and single-step it, printing state after each instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			machine, err := loadImage(args[0], cfg)
			if err != nil {
				return err
			}
			d := debugger.New(machine)
			for i := 0; i < count; i++ {
				reason := d.Step()
				fmt.Printf("--- step %d (%s) ---\n%s\n", i+1, reason, machine.DumpState())
				if reason != debugger.StopStep {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of instructions to step")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "disasm <image>",
		Short: "load an image and print a disassembly listing starting at its entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			machine, err := loadImage(args[0], cfg)
			if err != nil {
				return err
			}
			d := debugger.New(machine)
			addr := machine.EntryPoint
			for i := 0; i < count; i++ {
				fmt.Println(d.DisasmLine(addr))
				addr += 2
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 32, "number of halfwords to disassemble")
	return cmd
}

func newDebugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug <image>",
		Short: "load an image into the interactive TUI debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			machine, err := loadImage(args[0], cfg)
			if err != nil {
				return err
			}
			d := debugger.New(machine)
			tui := debugger.NewTUI(d)
			return tui.Run()
		},
	}
}
