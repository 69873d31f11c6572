// Package bind decodes an HTTP request body into a struct and validates it.
package bind

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

const defaultMaxBody = 4 << 20

// MaxBodyBytes is the request body cap, MAX_BODY_BYTES or 4 MiB.
func MaxBodyBytes() int64 {
	n := config.Int("MAX_BODY_BYTES", defaultMaxBody)
	if n <= 0 {
		return defaultMaxBody
	}
	return int64(n)
}

// JSON decodes r.Body into dest and validates it. A malformed or oversized
// body returns err; rule failures return errs. An empty body validates as
// an empty object and a value of the wrong JSON type is a field error.
func JSON(r *http.Request, dest any) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var (
			maxErr  *http.MaxBytesError
			typeErr *json.UnmarshalTypeError
		)
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
		case errors.As(err, &typeErr) && typeErr.Field != "":
			errs = check(dest)
			if errs == nil {
				errs = make(map[string]string)
			}
			errs[typeErr.Field] = typeMessage(typeErr.Field, typeErr.Type)
			return errs, nil
		default:
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return check(dest), nil
}

// typeMessage reports the JSON type a field expected.
func typeMessage(field string, t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return fmt.Sprintf("The %s field must be a string.", field)
	case reflect.Bool:
		return fmt.Sprintf("The %s field must be true or false.", field)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("The %s field must be a number.", field)
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("The %s field must be an array.", field)
	}
	return fmt.Sprintf("The %s field has an invalid type.", field)
}

// Form fills the exported fields of dest tagged `form:"name"` from the
// url-encoded body and validates the result.
func Form(r *http.Request, dest any) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes())
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: form destination must be a struct pointer, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		if _, present := r.PostForm[name]; !present {
			continue
		}
		if err := setField(rv.Field(i), r.PostForm.Get(name)); err != nil {
			return nil, fmt.Errorf("bind: field %s: %w", name, err)
		}
	}
	return check(dest), nil
}

func check(dest any) map[string]string {
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs
	}
	return nil
}

func setField(v reflect.Value, raw string) error {
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(raw))
		}
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		v.SetBool(raw == "1" || strings.EqualFold(raw, "true") || strings.EqualFold(raw, "on"))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		v.SetUint(n)
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}
