package codec

import "github.com/pixagram-blockchain/turboserial/value"

// isHeapValue reports whether v has the pointer identity the spec's
// object/array/collection reference table keys on (spec.md §3.3).
// Null/Undefined/Bool/Number/String are value types with no such identity;
// String is tracked separately, by content, in the string table instead.
// *value.Function is left out too: a bare callable goes on the wire as
// UNDEFINED, which the reader never registers, so an id for it would put
// every later id out of step with the reader's table.
func isHeapValue(v value.Value) bool {
	switch v.(type) {
	case *value.Array, *value.Object, *value.Map, *value.Set,
		*value.TypedArray, *value.ArrayBuffer, *value.DataView,
		*value.Date, *value.RegExp, *value.ErrorValue, *value.Symbol,
		*value.Blob, *value.File, *value.BigInt:
		return true
	default:
		return false
	}
}

// children returns v's direct value graph edges, for the pre-walk cycle
// detector. Inaccessible properties are never descended into — they are
// swallowed before they ever reach the graph walk, mirroring spec.md §4.6
// "tolerate property-access failures".
func children(v value.Value) []value.Value {
	switch t := v.(type) {
	case *value.Array:
		out := make([]value.Value, 0, len(t.Elems))
		for _, e := range t.Elems {
			if e != nil {
				out = append(out, e)
			}
		}

		return out
	case *value.Object:
		out := make([]value.Value, 0, len(t.Props)*2)
		for _, p := range t.Props {
			if p.Inaccessible() {
				continue
			}
			if p.Value != nil {
				out = append(out, p.Value)
			}
			if p.HasGetter && p.Getter != nil {
				out = append(out, p.Getter)
			}
			if p.HasSetter && p.Setter != nil {
				out = append(out, p.Setter)
			}
		}

		return out
	case *value.Map:
		out := make([]value.Value, 0, len(t.Entries)*2)
		for _, e := range t.Entries {
			out = append(out, e.Key, e.Val)
		}

		return out
	case *value.Set:
		return t.Items
	case *value.ErrorValue:
		return t.Inner
	default:
		return nil
	}
}
