package modelbind

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ArrayBinder binds slices in one of two forms:
//
//   - flat: every value of the field "name[]" becomes one element, in
//     submission order. Only scalar elements can use this form.
//   - indexed: fields "name[0]...", "name[1]..." each bind one element through
//     the resolver. Indexes must be exactly 0..N-1; each element is stored at
//     its submitted index.
//
// When neither form is present, or "name[]" is present without values, the
// binder returns no value.
type ArrayBinder struct{}

func (ArrayBinder) CanBind(ctx *Context) bool {
	return ctx.Shape().Kind() == KindArray
}

func (ArrayBinder) Bind(ctx *Context) (any, bool, error) {
	shape := ctx.Shape()
	base := ctx.Path() + "["

	if vals, ok := ctx.Source().Get(base + "]"); ok && len(vals) > 0 {
		return bindFlat(shape, base+"]", vals)
	}

	segs, err := collectSegments(ctx.Source(), base)
	if err != nil {
		return nil, false, err
	}
	if len(segs) == 0 {
		return nil, false, nil
	}

	indexes := make([]int, len(segs))
	for i, seg := range segs {
		n, err := strconv.ParseUint(seg.token, 10, 31)
		if err != nil {
			return nil, false, bindErr(seg.name, seg.token, ErrUnparseableIndex, err)
		}
		indexes[i] = int(n)
	}
	if err := validateIndexes(indexes, base+"]"); err != nil {
		return nil, false, err
	}

	seq := shape.seq.make(len(segs))
	for i, seg := range segs {
		// seg.name already carries the full path, so the prefix is empty
		v, ok, err := ctx.Resolve(shape.elem, "", seg.name)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		if !shape.seq.set(seq, indexes[i], v) {
			return nil, false, mismatch(seg.name, shape.elem, v)
		}
	}
	return seq, true, nil
}

func bindFlat(shape *Shape, field string, vals []string) (any, bool, error) {
	if !shape.elem.Scalar() {
		return nil, false, bindErr(field, nil, ErrFlatElement,
			fmt.Errorf("element type %s cannot be converted from a string", shape.elem.name))
	}
	seq := shape.seq.make(len(vals))
	for i, raw := range vals {
		v, err := convertScalar(shape.elem, raw)
		if err != nil {
			return nil, false, bindErr(field, raw, ErrConversion, err)
		}
		if !shape.seq.set(seq, i, v) {
			return nil, false, mismatch(field, shape.elem, v)
		}
	}
	return seq, true, nil
}

// validateIndexes requires the indexes to be a permutation of 0..N-1. The
// first index breaking the sequence is reported.
func validateIndexes(indexes []int, field string) error {
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	for want, got := range sorted {
		if got != want {
			return bindErr(field, got, ErrIndexGap, fmt.Errorf("expected index %d, got %d", want, got))
		}
	}
	return nil
}

// segment is a distinct bracketed sub-path such as "Users[0]".
type segment struct {
	name  string
	token string
}

// collectSegments groups the fields starting with base (a path ending in '[')
// by their first bracketed segment, keeping first-seen order.
func collectSegments(src ValueSource, base string) ([]segment, error) {
	var segs []segment
	seen := make(map[string]struct{})
	for _, f := range src.Find(base) {
		if f.Name == base+"]" {
			// flat field without values
			continue
		}
		end := strings.IndexByte(f.Name[len(base):], ']')
		if end < 0 {
			return nil, bindErr(base+"]", f.Name, ErrUnterminatedIndex, nil)
		}
		name := f.Name[:len(base)+end+1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		segs = append(segs, segment{name: name, token: f.Name[len(base) : len(base)+end]})
	}
	return segs, nil
}

func mismatch(field string, shape *Shape, v any) error {
	return bindErr(field, nil, ErrShapeMismatch, fmt.Errorf("%T is not assignable to %s", v, shape.name))
}
