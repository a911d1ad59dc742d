package model

import (
	"reflect"
	"strings"
)

// CheckComplete reports the first parameter missing from doc, a decoded
// parameter document keyed by the json field names. Every field is required
// and per-grade lists must hold exactly one value per grade.
func CheckComplete(doc map[string]interface{}) error {
	return checkComplete(reflect.TypeOf(Parameters{}), doc, "")
}

func checkComplete(t reflect.Type, doc map[string]interface{}, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			if err := checkComplete(f.Type, doc, prefix); err != nil {
				return err
			}
			continue
		}

		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		v, ok := doc[name]
		if !ok || v == nil {
			return configErr(path, "is required")
		}

		switch f.Type.Kind() {
		case reflect.Struct:
			sub, ok := v.(map[string]interface{})
			if !ok {
				return configErr(path, "must be an object")
			}
			if err := checkComplete(f.Type, sub, path); err != nil {
				return err
			}
		case reflect.Array:
			list, ok := v.([]interface{})
			if !ok || len(list) != f.Type.Len() {
				return configErr(path, "must list %d values", f.Type.Len())
			}
		}
	}
	return nil
}
