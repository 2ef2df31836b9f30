package yamlconfig

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

func toCtyMap(m map[string]any) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(m))
	for k, v := range m {
		cv, err := toCty(v)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", k, err)
		}
		out[k] = cv
	}
	return out, nil
}

// toCty converts a decoded YAML value. Sequences become tuples and mappings
// become objects, matching what HCL literals evaluate to.
func toCty(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case uint64:
		return cty.NumberUIntVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(t))
		for i, e := range t {
			cv, err := toCty(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			vals[i] = cv
		}
		return cty.TupleVal(vals), nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		vals, err := toCtyMap(t)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.ObjectVal(vals), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}
