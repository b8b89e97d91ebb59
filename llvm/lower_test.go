package llvm

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/nalgeon/be"
)

func blockNames(f *ir.Func) []string {
	var names []string
	for _, b := range f.Blocks {
		names = append(names, b.Name())
	}
	return names
}

func TestLowerStraightLine(t *testing.T) {
	m, err := Lower([]string{
		"_t0 = 3 * 4",
		"x = 2 + _t0",
		"y = - x",
		"_L0",
	})
	be.Err(t, err, nil)
	be.Equal(t, len(m.Funcs), 1)

	main := m.Funcs[0]
	be.Equal(t, main.Name(), "main")
	be.Equal(t, blockNames(main), []string{"entry", "body", "_L0"})

	// One slot per name, each zeroed.
	entry := main.Blocks[0]
	be.Equal(t, len(entry.Insts), 6)

	out := m.String()
	be.True(t, strings.Contains(out, "define i32 @main()"))
	be.True(t, strings.Contains(out, "%x.addr = alloca i64"))
	be.True(t, strings.Contains(out, "%_t0.addr = alloca i64"))
	be.True(t, strings.Contains(out, "mul i64 3, 4"))
	be.True(t, strings.Contains(out, "sub i64 0,"))
	be.True(t, strings.Contains(out, "ret i32 0"))
}

func TestLowerJumps(t *testing.T) {
	m, err := Lower([]string{
		"_L1",
		"if i < 10 goto _L2",
		"goto _L0",
		"_L2",
		"i = i + 1",
		"ifFalse i == 5 goto _L1",
		"s = s % i",
		"goto _L1",
		"_L0",
	})
	be.Err(t, err, nil)

	main := m.Funcs[0]
	be.Equal(t, blockNames(main), []string{
		"entry", "body", "_L1", "cont.0", "cont.1", "_L2", "cont.2", "cont.3", "_L0",
	})
	for _, b := range main.Blocks {
		be.True(t, b.Term != nil)
	}

	out := m.String()
	be.True(t, strings.Contains(out, "icmp slt i64"))
	be.True(t, strings.Contains(out, "icmp eq i64"))
	be.True(t, strings.Contains(out, "srem i64"))
	be.True(t, strings.Contains(out, "br label %_L1"))
}

func TestLowerIfFalseSwapsSuccessors(t *testing.T) {
	m, err := Lower([]string{
		"ifFalse a != 0 goto _L0",
		"a = 1",
		"_L0",
	})
	be.Err(t, err, nil)

	out := m.String()
	be.True(t, strings.Contains(out, "icmp ne i64"))
	be.True(t, strings.Contains(out, "label %cont.0, label %_L0"))
}

func TestEmitEmptyProgram(t *testing.T) {
	out, err := Emit(nil)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "define i32 @main()"))
	be.True(t, strings.Contains(out, "ret i32 0"))
}

func TestLowerErrors(t *testing.T) {
	_, err := Lower([]string{"goto _L9"})
	be.Err(t, err, "jump to undefined label _L9")

	_, err = Emit([]string{"x = y ^ z"})
	be.Err(t, err, "unknown binary operator")
}
