package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/agbru/calcbench/internal/calculator"
)

// KeyMap holds every binding of the keypad interface.
type KeyMap struct {
	Digit    key.Binding
	Decimal  key.Binding
	Add      key.Binding
	Subtract key.Binding
	Multiply key.Binding
	Divide   key.Binding
	Equals   key.Binding
	Sqrt     key.Binding
	Square   key.Binding
	Mod      key.Binding
	Exp      key.Binding
	Ln       key.Binding
	Log      key.Binding
	Negate   key.Binding
	Percent  key.Binding
	Clear    key.Binding

	Expression key.Binding
	Backend    key.Binding
	Bench      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var _ help.KeyMap = KeyMap{}

// DefaultKeyMap returns the keypad bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "digit"),
		),
		Decimal:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "decimal")),
		Add:      key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "add")),
		Subtract: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "subtract")),
		Multiply: key.NewBinding(key.WithKeys("*", "x"), key.WithHelp("*", "multiply")),
		Divide:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "divide")),
		Equals:   key.NewBinding(key.WithKeys("=", "enter"), key.WithHelp("=", "equals")),
		Sqrt:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "√x")),
		Square:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "x²")),
		Mod:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mod")),
		Exp:      key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "eˣ")),
		Ln:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "ln")),
		Log:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log")),
		Negate:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "±")),
		Percent:  key.NewBinding(key.WithKeys("%"), key.WithHelp("%", "percent")),
		Clear:    key.NewBinding(key.WithKeys("c", "esc", "backspace"), key.WithHelp("c", "clear")),

		Expression: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expression")),
		Backend:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next backend")),
		Bench:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "benchmark")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Expression, k.Backend, k.Bench, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digit, k.Decimal, k.Negate, k.Percent, k.Clear},
		{k.Add, k.Subtract, k.Multiply, k.Divide, k.Equals},
		{k.Sqrt, k.Square, k.Mod, k.Exp, k.Ln, k.Log},
		{k.Expression, k.Backend, k.Bench, k.Help, k.Quit},
	}
}

type opBinding struct {
	binding key.Binding
	op      calculator.Operation
}

// operationBindings pairs each operation key with the engine operation it
// triggers.
func (k KeyMap) operationBindings() []opBinding {
	return []opBinding{
		{k.Add, calculator.OpAdd},
		{k.Subtract, calculator.OpSubtract},
		{k.Multiply, calculator.OpMultiply},
		{k.Divide, calculator.OpDivide},
		{k.Equals, calculator.OpEquals},
		{k.Sqrt, calculator.OpSqrt},
		{k.Square, calculator.OpSquare},
		{k.Mod, calculator.OpMod},
		{k.Exp, calculator.OpExp},
		{k.Ln, calculator.OpLn},
		{k.Log, calculator.OpLog},
	}
}
