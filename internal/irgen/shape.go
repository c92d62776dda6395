package irgen

import (
	"sysyc/internal/parser"
	"sysyc/internal/sema"
	"sysyc/internal/types"
)

// evalDims folds each dimension expression of an array declarator to a
// constant size. SysY only ever allows constant array bounds.
func (l *Lowerer) evalDims(dims []parser.Exp) ([]int, error) {
	out := make([]int, len(dims))
	for i, d := range dims {
		n, err := sema.Eval(d, l.scopes)
		if err != nil {
			return nil, err
		}
		out[i] = int(n)
	}
	return out, nil
}

// arrayType builds the nested array type for a declarator's dimension list,
// outermost dimension first, innermost last — i.e. `int a[d0][d1]` builds
// array(array(i32, d1), d0).
func arrayType(dims []int) *types.Type {
	t := types.I32()
	for i := len(dims) - 1; i >= 0; i-- {
		t = types.Array(t, dims[i])
	}
	return t
}

// paramType builds a function parameter's type. A scalar parameter is i32.
// An array parameter `int p[][d1]...[dk]` decays its first dimension to a
// pointer: build array(...array(i32, dk)..., d1) from the stored trailing
// dimensions, then wrap once more in a pointer for the decayed leading
// dimension.
func (l *Lowerer) paramType(p parser.FuncParam) (*types.Type, error) {
	if !p.IsArray {
		return types.I32(), nil
	}
	dims, err := l.evalDims(p.ArrayDims)
	if err != nil {
		return nil, err
	}
	return types.Pointer(arrayType(dims)), nil
}

func suffixSize(dims []int, level int) int {
	n := 1
	for i := level; i < len(dims); i++ {
		n *= dims[i]
	}
	return n
}

func product(dims []int) int { return suffixSize(dims, 0) }
