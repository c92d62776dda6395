package irgen

import (
	"sysyc/internal/compileerr"
	"sysyc/internal/parser"
)

// flattenInit turns a (possibly nested) brace initializer into a dense,
// row-major slice of scalar expressions, one per element of the array
// described by dims, zero-padding any elements the initializer leaves
// unspecified.
//
// Placement follows SysY's dimension-alignment rule: a bare scalar fills
// the next flat slot; a nested brace list fills the widest aligned
// sub-shape its current position permits, scanning from the innermost
// dimension outward but never reaching past the shape of its own
// enclosing list.
func flattenInit(init parser.InitVal, dims []int) ([]parser.Exp, error) {
	total := product(dims)
	out := make([]parser.Exp, total)
	for i := range out {
		out[i] = zeroExp
	}
	list, ok := init.(*parser.InitList)
	if !ok {
		return nil, compileerr.Unlocated(compileerr.SysError, "scalar initializer used for an array declaration")
	}
	if err := fillList(list, dims, 0, 0, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fillList fills out[base : base+suffixSize(dims,level)] from list, which is
// known to cover the shape dims[level:].
func fillList(list *parser.InitList, dims []int, level, base int, out []parser.Exp) error {
	capacity := suffixSize(dims, level)
	c := 0
	for _, item := range list.Items {
		if c >= capacity {
			return compileerr.Unlocated(compileerr.SysError, "initializer list has more elements than its shape allows")
		}
		switch v := item.(type) {
		case *parser.ExpInitVal:
			out[base+c] = v.Exp
			c++
		case *parser.InitList:
			lvl := len(dims) - 1
			for lvl > level+1 && c%suffixSize(dims, lvl-1) == 0 {
				lvl--
			}
			consumed := suffixSize(dims, lvl)
			if c+consumed > capacity {
				return compileerr.Unlocated(compileerr.SysError, "initializer list has more elements than its shape allows")
			}
			if err := fillList(v, dims, lvl, base+c, out); err != nil {
				return err
			}
			c += consumed
		default:
			return compileerr.Unlocated(compileerr.SysError, "unknown initializer list item")
		}
	}
	return nil
}
