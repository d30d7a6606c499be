// Package loader sets up a VM's memory segments from a config.Config and
// places a raw Thumb code image (plus optional initial data) into it.
// Grounded on loader/loader.go's segment-creation-then-write shape,
// narrowed to spec.md §1's scope: this core consumes pre-assembled
// binary images, not source text — that's the `asm` package's job.
package loader

import (
	"fmt"

	"github.com/lookbusy1344/narmvm/config"
	"github.com/lookbusy1344/narmvm/vm"
)

// Image is a fully-linked program ready to load: a code blob placed at
// the start of the code segment (cfg.Memory.CodeBase), the Entry address
// execution starts at, optional initial data, and the address that data
// starts at.
type Image struct {
	Entry    uint32
	Code     []byte
	Data     []byte
	DataBase uint32
}

// LoadImage creates the VM's memory segments per cfg.Memory (code, data,
// stack), copies img.Code and img.Data into place, sets SP to the top of
// the stack segment, and arms PC/EntryPoint at img.Entry.
func LoadImage(v *vm.VM, cfg *config.Config, img Image) error {
	mem := v.Memory

	if err := mem.AddMemory(cfg.Memory.CodeBase, cfg.Memory.CodeSize, vm.PermRead); err != nil {
		return fmt.Errorf("failed to create code segment: %w", err)
	}
	if err := mem.AddMemory(cfg.Memory.DataBase, cfg.Memory.DataSize, vm.PermRead|vm.PermWrite); err != nil {
		return fmt.Errorf("failed to create data segment: %w", err)
	}
	if err := mem.AddMemory(cfg.Memory.StackBase, cfg.Memory.StackSize, vm.PermRead|vm.PermWrite); err != nil {
		return fmt.Errorf("failed to create stack segment: %w", err)
	}

	if len(img.Code) > 0 {
		if err := mem.SetSizedMemory(cfg.Memory.CodeBase, img.Code); err != nil {
			return fmt.Errorf("failed to write code image: %w", err)
		}
	}
	if len(img.Data) > 0 {
		base := img.DataBase
		if base == 0 {
			base = cfg.Memory.DataBase
		}
		if err := mem.SetSizedMemory(base, img.Data); err != nil {
			return fmt.Errorf("failed to write data image: %w", err)
		}
	}

	v.CPU.SetSP(cfg.Memory.StackBase + cfg.Memory.StackSize)
	v.EntryPoint = img.Entry
	v.CPU.PC = img.Entry

	if cfg.Execution.GasEnabled {
		v.SetGas(cfg.Execution.GasBudget)
	}

	return nil
}
