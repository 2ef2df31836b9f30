package hcl

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the cty-based implementation of the config.Converter
// interface. It binds attributes to struct fields tagged with `cty:"name"`
// and validates the result with the `validate` tags of the struct.
type Converter struct{}

// NewConverter creates a new converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeAttributes implements config.Converter.
func (c *Converter) DecodeAttributes(ctx context.Context, attrs map[string]cty.Value, target any) error {
	logger := ctxlog.FromContext(ctx)

	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a non-nil pointer to a struct, got %T", target)
	}
	structVal = structVal.Elem()

	fields := make(map[string]reflect.Value)
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("cty"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		fields[name] = structVal.Field(i)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		fieldVal, ok := fields[name]
		if !ok {
			return fmt.Errorf("unsupported argument %q", name)
		}
		if err := c.decode(ctx, attrs[name], fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", name, err)
		}
	}

	if err := config.ValidateStruct(target); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	logger.Debug("Decoded stage arguments.", "count", len(names))
	return nil
}

// decode converts val to the type implied by goVal and stores it.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	if val.IsNull() {
		return nil
	}
	target := reflect.ValueOf(goVal).Elem()
	impliedType, err := gocty.ImpliedType(target.Interface())
	if err != nil {
		return fmt.Errorf("unsupported field type %s: %w", target.Type(), err)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if !val.Type().Equals(convertedVal.Type()) {
		ctxlog.FromContext(ctx).Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", convertedVal.Type().FriendlyName(),
		)
	}
	return gocty.FromCtyValue(convertedVal, goVal)
}
