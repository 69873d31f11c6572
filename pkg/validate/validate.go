// Package validate checks struct fields against rules in a `validate` tag and
// reports the first failing rule per field with a human readable message.
//
// Supported rules:
//
//	required      not zero and not blank
//	nullable      skip remaining rules when empty
//	email         address shape
//	numeric       decimal number ("12", "12.50", "-3", "1e3")
//	min=N, max=N  string length, or value for numeric kinds
//	gte=N, lte=N  numeric value bounds
//	in=a,b,c      one of the listed values
//
// The reported field name is taken from the `form` tag, then `json`, then
// the lower-cased Go name.
package validate

import (
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Struct returns a field → message map; an empty map means v is valid.
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		value := rv.Field(i)
		name := fieldName(field)
		rules := splitRules(tag)

		if contains(rules, "nullable") && isEmpty(value) {
			continue
		}
		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := apply(rule, name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func apply(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	raw := strings.TrimSpace(fmt.Sprint(v.Interface()))

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s field must be a valid email address.", field)
		}
	case "numeric":
		if _, ok := number(v); !ok {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
	case "min":
		n := mustDecimal(param)
		if f, ok := numericKindValue(v); ok {
			if f.LessThan(n) {
				return fmt.Sprintf("The %s field must be at least %s.", field, param)
			}
		} else if decimal.NewFromInt(int64(len([]rune(raw)))).LessThan(n) {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
		}
	case "max":
		n := mustDecimal(param)
		if f, ok := numericKindValue(v); ok {
			if f.GreaterThan(n) {
				return fmt.Sprintf("The %s field must not be greater than %s.", field, param)
			}
		} else if decimal.NewFromInt(int64(len([]rune(raw)))).GreaterThan(n) {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, param)
		}
	case "gte":
		if f, ok := number(v); ok && f.LessThan(mustDecimal(param)) {
			return fmt.Sprintf("The %s field must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if f, ok := number(v); ok && f.GreaterThan(mustDecimal(param)) {
			return fmt.Sprintf("The %s field must be less than or equal to %s.", field, param)
		}
	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

var (
	emailRE   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	numericRE = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// number reads v as a decimal, accepting numeric kinds and numeric strings.
func number(v reflect.Value) (decimal.Decimal, bool) {
	if d, ok := numericKindValue(v); ok {
		return d, true
	}
	if v.Kind() != reflect.String {
		return decimal.Zero, false
	}
	s := strings.TrimSpace(v.String())
	if !numericRE.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

func numericKindValue(v reflect.Value) (decimal.Decimal, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(v.Float()), true
	}
	return decimal.Zero, false
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	}
	return v.IsZero()
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// splitRules splits on commas, keeping the comma separated values of an
// "in=" rule together. "in" must therefore be the last rule in a tag.
func splitRules(tag string) []string {
	var rules []string
	for tag != "" {
		if strings.HasPrefix(tag, "in=") {
			rules = append(rules, tag)
			break
		}
		rule, rest, _ := strings.Cut(tag, ",")
		if rule = strings.TrimSpace(rule); rule != "" {
			rules = append(rules, rule)
		}
		tag = rest
	}
	return rules
}

func contains(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
