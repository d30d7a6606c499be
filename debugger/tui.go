package debugger

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is a terminal register/disassembly/command inspector built on
// tview, grounded on debugger/tui.go's panel layout (registers left,
// disassembly center, command line bottom), narrowed to the verbs
// Execute understands.
type TUI struct {
	debugger *Debugger
	app      *tview.Application

	regsView *tview.TextView
	codeView *tview.TextView
	logView  *tview.TextView
	input    *tview.InputField
}

// NewTUI builds (but does not run) a TUI over d.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		debugger: d,
		app:      tview.NewApplication(),
		regsView: tview.NewTextView().SetDynamicColors(true),
		codeView: tview.NewTextView().SetDynamicColors(true),
		logView:  tview.NewTextView().SetDynamicColors(true),
	}
	t.regsView.SetBorder(true).SetTitle(" registers ")
	t.codeView.SetBorder(true).SetTitle(" disassembly ")
	t.logView.SetBorder(true).SetTitle(" log ")

	t.input = tview.NewInputField().SetLabel("(narmvm) ")
	t.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := t.input.GetText()
		t.input.SetText("")
		out := t.debugger.Execute(cmd)
		fmt.Fprintf(t.logView, "(narmvm) %s\n%s\n", cmd, out)
		t.refresh()
	})

	top := tview.NewFlex().
		AddItem(t.regsView, 28, 0, false).
		AddItem(t.codeView, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.logView, 0, 2, false).
		AddItem(t.input, 1, 0, true)

	t.app.SetRoot(root, true).SetFocus(t.input)
	t.refresh()
	return t
}

// Run blocks until the TUI exits (quit keybinding or the application's
// own event loop termination).
func (t *TUI) Run() error {
	return t.app.Run()
}

// refresh repaints the registers and disassembly panes from current VM
// state; the log pane is append-only and left untouched.
func (t *TUI) refresh() {
	t.regsView.Clear()
	fmt.Fprint(t.regsView, t.debugger.cmdRegs())

	t.codeView.Clear()
	pc := t.debugger.VM.CPU.PC
	addr := pc
	for i := 0; i < 12; i++ {
		marker := "  "
		if addr == pc {
			marker = "->"
		}
		if t.debugger.Breakpoints.HasBreakpoint(addr) {
			marker = "B:" + marker[1:]
		}
		fmt.Fprintf(t.codeView, "%s %s\n", marker, t.debugger.DisasmLine(addr))
		addr += 2
	}
}

// Stop halts the application's event loop, for use from a signal
// handler or a "quit" command outside the normal input flow.
func (t *TUI) Stop() {
	t.app.Stop()
}
