package persistence

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

const (
	typeMarkerKey  = "__type"
	typeMarkerDate = "date"
	typeValueKey   = "value"
)

var timeType = reflect.TypeOf(time.Time{})

// Marshal encodes v as JSON text with every time.Time replaced by a tagged
// {"__type":"date","value":<RFC 3339>} wrapper.
func Marshal(v any) ([]byte, error) {
	tree, err := EncodeValue(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// Unmarshal parses JSON text into a generic tree and turns tagged date
// wrappers back into time.Time values.
func Unmarshal(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return DecodeValue(raw)
}

// Decode copies a generic tree produced by Unmarshal into out, matching
// fields by their json tag names. Untagged RFC 3339 strings are accepted for
// time.Time fields.
func Decode(tree any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Squash:     true,
		Result:     out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	return decoder.Decode(tree)
}

func EncodeValue(v any) (any, error) {
	return encodeValue(reflect.ValueOf(v))
}

func encodeValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.Type() == timeType {
		return map[string]any{
			typeMarkerKey: typeMarkerDate,
			typeValueKey:  v.Interface().(time.Time).UTC().Format(time.RFC3339Nano),
		}, nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return encodeValue(v.Elem())
	case reflect.Struct:
		return encodeStruct(v)
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("encode %s: map keys must be strings", v.Type())
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			item, err := encodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = item
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		out := make([]any, v.Len())
		for i := range v.Len() {
			item, err := encodeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("encode %s: unsupported kind %s", v.Type(), v.Kind())
	}
}

func encodeStruct(v reflect.Value) (map[string]any, error) {
	out := make(map[string]any, v.NumField())
	structType := v.Type()
	for i := range structType.NumField() {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonField(field)
		if skip {
			continue
		}
		value := v.Field(i)

		if field.Anonymous && name == "" {
			embedded, err := encodeValue(value)
			if err != nil {
				return nil, err
			}
			if embedded == nil {
				continue
			}
			if fields, ok := embedded.(map[string]any); ok {
				for key, item := range fields {
					out[key] = item
				}
				continue
			}
		}

		if name == "" {
			name = field.Name
		}
		if omitEmpty && isEmptyValue(value) {
			continue
		}
		item, err := encodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", field.Name, err)
		}
		out[name] = item
	}
	return out, nil
}

func jsonField(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, option := range parts[1:] {
		if option == "omitempty" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty, false
}

func isEmptyValue(v reflect.Value) bool {
	if v.Type() == timeType {
		return v.Interface().(time.Time).IsZero()
	}
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return false
	}
}

func DecodeValue(v any) (any, error) {
	switch typed := v.(type) {
	case map[string]any:
		if marker, ok := typed[typeMarkerKey].(string); ok && marker == typeMarkerDate {
			raw, ok := typed[typeValueKey].(string)
			if !ok {
				return nil, fmt.Errorf("decode date: value is %T, want string", typed[typeValueKey])
			}
			parsed, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return nil, fmt.Errorf("decode date %q: %w", raw, err)
			}
			return parsed, nil
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			decoded, err := DecodeValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = decoded
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			decoded, err := DecodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	default:
		return v, nil
	}
}
