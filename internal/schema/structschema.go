package schema

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/confkit/confkit/internal/document"
)

// StructSchema builds a Descriptor by reflecting over a Go struct's
// `mapstructure` tags. A field tagged `confkit:"open-map"` or
// `confkit:"any"` terminates traversal at that field; every other
// struct/pointer-to-struct field recurses, slices of struct recurse with
// the index elided, other slices and arrays are array leaves, map fields
// are open maps, and everything else is a scalar leaf.
//
// Struct-tag value validation (`validate:"required"`, `validate:"oneof=..."`,
// etc.) is delegated to go-playground/validator/v10.
type StructSchema struct {
	Type     reflect.Type
	validate *validator.Validate
}

// NewStructSchema builds a StructSchema for the given struct value (a zero
// value or a pointer to one; only the type is used).
func NewStructSchema(sample any) *StructSchema {
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return &StructSchema{Type: t, validate: validator.New()}
}

func (s *StructSchema) Fields() []Field {
	var out []Field
	walkStructType(s.Type, nil, &out)
	return out
}

func walkStructType(t reflect.Type, prefix []string, out *[]Field) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name := mapstructureName(sf)
		if name == "-" {
			continue
		}
		path := append(append([]string{}, prefix...), name)
		kindTag := sf.Tag.Get("confkit")
		sec := parseSecurityTag(sf.Tag.Get("security"))

		switch {
		case kindTag == "open-map":
			*out = append(*out, Field{Path: document.JoinPath(path), Kind: KindOpenMap})
		case kindTag == "any":
			*out = append(*out, Field{Path: document.JoinPath(path), Kind: KindAny})
		default:
			ft := sf.Type
			for ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			switch ft.Kind() {
			case reflect.Struct:
				*out = append(*out, Field{Path: document.JoinPath(path), Kind: KindObject})
				walkStructType(ft, path, out)
			case reflect.Slice, reflect.Array:
				elem := ft.Elem()
				for elem.Kind() == reflect.Ptr {
					elem = elem.Elem()
				}
				if elem.Kind() == reflect.Struct {
					*out = append(*out, Field{Path: document.JoinPath(path), Kind: KindArray})
					walkStructType(elem, path, out) // index elided, per the configuration core
				} else {
					*out = append(*out, Field{Path: document.JoinPath(path), Kind: KindArray})
				}
			case reflect.Map:
				*out = append(*out, Field{Path: document.JoinPath(path), Kind: KindOpenMap})
			default:
				*out = append(*out, Field{Path: document.JoinPath(path), Kind: KindScalar, Security: sec})
			}
		}
	}
}

// parseSecurityTag parses a `security:"kind,option=value,..."` struct tag
// into a FieldSecurity. An empty or unrecognized kind yields the zero value
// (FieldSecurityNone), so a malformed tag degrades to "no rule" rather than
// panicking during schema construction.
func parseSecurityTag(tag string) FieldSecurity {
	if tag == "" {
		return FieldSecurity{}
	}
	parts := strings.Split(tag, ",")
	sec := FieldSecurity{Kind: FieldSecurityKind(parts[0])}
	for _, opt := range parts[1:] {
		key, val, hasVal := strings.Cut(opt, "=")
		switch key {
		case "relative":
			sec.RelativeOnly = true
		case "min":
			if f, err := strconv.ParseFloat(val, 64); hasVal && err == nil {
				sec.Min = &f
			}
		case "max":
			if f, err := strconv.ParseFloat(val, 64); hasVal && err == nil {
				sec.Max = &f
			}
		case "minlen":
			if n, err := strconv.Atoi(val); hasVal && err == nil {
				sec.MinLen = &n
			}
		case "maxlen":
			if n, err := strconv.Atoi(val); hasVal && err == nil {
				sec.MaxLen = &n
			}
		case "pattern":
			if hasVal {
				if re, err := regexp.Compile(val); err == nil {
					sec.Pattern = re
				}
			}
		}
	}
	switch sec.Kind {
	case FieldSecurityPath, FieldSecurityNumber, FieldSecurityString:
	default:
		return FieldSecurity{}
	}
	return sec
}

func mapstructureName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("mapstructure"); ok {
		name := strings.Split(tag, ",")[0]
		if name != "" {
			return name
		}
	}
	return strings.ToLower(sf.Name[:1]) + sf.Name[1:]
}

// ValidateStruct runs go-playground/validator's struct validation over an
// already-decoded instance of s.Type.
func (s *StructSchema) ValidateStruct(instance any) []FieldFailure {
	err := s.validate.Struct(instance)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldFailure{{Field: "", Tag: "internal", Param: "", Value: err.Error()}}
	}
	out := make([]FieldFailure, len(verrs))
	for i, fe := range verrs {
		out[i] = FieldFailure{
			Field: fe.Namespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		}
	}
	return out
}

// Validate implements Descriptor.Validate for StructSchema: it decodes doc
// into a fresh instance of s.Type via github.com/go-viper/mapstructure/v2
// (which reads the same `mapstructure` tags Fields() walked to build the
// key universe) and runs go-playground/validator's struct tags over the
// result. A decode error (e.g. a scalar where the struct expects an
// object) surfaces as a single FieldFailure rather than panicking.
func (s *StructSchema) Validate(doc *document.Document) []FieldFailure {
	instance := reflect.New(s.Type).Interface()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           instance,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return []FieldFailure{{Field: "", Tag: "internal", Param: "", Value: err.Error()}}
	}
	if err := decoder.Decode(doc.ToMap()); err != nil {
		return []FieldFailure{{Field: "", Tag: "internal", Param: "", Value: err.Error()}}
	}
	return s.ValidateStruct(instance)
}
