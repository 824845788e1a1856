/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"encoding/json"
	"reflect"
	"strings"
)

const redactedValue = "********"

// SanitizeForLog renders cfg as JSON with every field tagged
// `sensitive:"true"` masked.
func SanitizeForLog(cfg interface{}) ([]byte, error) {
	return json.MarshalIndent(sanitize(reflect.ValueOf(cfg)), "", "  ")
}

func sanitize(v reflect.Value) interface{} {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.CanInterface() {
		if m, ok := v.Interface().(json.Marshaler); ok {
			return m
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		out := make(map[string]interface{}, v.NumField())
		t := v.Type()

		for i := 0; i < t.NumField(); i++ {
			ft := t.Field(i)
			if !ft.IsExported() {
				continue
			}

			name, _, _ := strings.Cut(ft.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}

			if name == "" {
				name = ft.Name
			}

			fv := v.Field(i)

			if ft.Tag.Get("sensitive") == "true" {
				if !fv.IsZero() {
					out[name] = redactedValue
				}

				continue
			}

			out[name] = sanitize(fv)
		}

		return out
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}

		out := make(map[string]interface{}, v.Len())
		iter := v.MapRange()

		for iter.Next() {
			out[iter.Key().String()] = sanitize(iter.Value())
		}

		return out
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}

		out := make([]interface{}, v.Len())
		for i := range out {
			out[i] = sanitize(v.Index(i))
		}

		return out
	default:
		if !v.IsValid() {
			return nil
		}

		return v.Interface()
	}
}
