// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// resolveTag maps a parsed tag to its string value. The cascade order is
// load-bearing: dotted loop-variable access, then the proxy: and custom:
// prefixes, then the built-in names, then a bare loop variable.
func resolveTag(tag *TagContent, rc *Context) (string, error) {
	name := tag.Name

	if dot := strings.Index(name, "."); dot >= 0 {
		return resolveLoopField(name[:dot], name[dot+1:], rc)
	}

	if secretName, ok := strings.CutPrefix(name, "proxy:"); ok {
		return resolveProxy(secretName, rc)
	}

	if key, ok := strings.CutPrefix(name, "custom:"); ok {
		return resolveCustom(key, rc)
	}

	switch name {
	case "date":
		offset, err := computeOffset(tag.Params, rc)
		if err != nil {
			return "", err
		}
		return rc.now().Add(offset).Format(dateLayout), nil

	case "datetime":
		offset, err := computeOffset(tag.Params, rc)
		if err != nil {
			return "", err
		}
		return rc.now().Add(offset).Format(dateTimeLayout), nil

	case "datetimeiso":
		return rc.now().Format(time.RFC3339), nil

	case "result":
		return rc.Result, nil

	case "message":
		return rc.Message, nil

	case "sender":
		return rc.Sender, nil

	case "memory":
		return resolveMemory(tag, rc)
	}

	if val, ok := rc.LoopVars[name]; ok {
		if val.IsIndex() {
			return strconv.FormatInt(val.Index, 10), nil
		}
		return val.Memory.Result, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownTag, name)
}

func resolveProxy(name string, rc *Context) (string, error) {
	if rc.Secrets != nil {
		if url, ok := rc.Secrets.MatchURL(name); ok {
			return url, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSecret, name)
}

func resolveCustom(key string, rc *Context) (string, error) {
	if rc.Dictionary != nil {
		if val, ok := rc.Dictionary.Lookup("general", key); ok {
			return val, nil
		}
	}
	return "", fmt.Errorf("%w: 'custom:%s'", ErrUnknownDictionaryKey, key)
}

// resolveMemory indexes the memories list. minus=1 (and an absent minus) is
// the newest entry, minus=2 the second newest; minus=0 also maps to newest.
func resolveMemory(tag *TagContent, rc *Context) (string, error) {
	offset := 0
	if raw, ok := tag.Params["minus"]; ok {
		minus, err := strconv.Atoi(raw)
		if err != nil || minus < 0 {
			return "", fmt.Errorf("%w: %q", ErrInvalidMemoryOffset, raw)
		}
		if minus > 0 {
			offset = minus - 1
		}
	}

	if offset >= len(rc.Memories) {
		return "", fmt.Errorf("%w %d (have %d memories)", ErrMemoryOffsetOutOfRange, offset, len(rc.Memories))
	}
	return rc.Memories[offset].Result, nil
}

// resolveLoopField handles dotted access like i.date for memory-bound loop
// variables. Index variables expose no fields.
func resolveLoopField(varName, field string, rc *Context) (string, error) {
	val, ok := rc.LoopVars[varName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLoopVariable, varName)
	}

	if val.IsIndex() {
		return "", fmt.Errorf("%w: index variable %q has no field %q", ErrUnknownLoopField, varName, field)
	}

	switch field {
	case "date":
		return val.Memory.Date, nil
	case "datetime":
		return val.Memory.DateTime, nil
	case "result":
		return val.Memory.Result, nil
	default:
		return "", fmt.Errorf("%w: memory has no field %q", ErrUnknownLoopField, field)
	}
}

// computeOffset turns minus/plus params into a signed duration. Values go
// through loop-variable interpolation first.
func computeOffset(params map[string]string, rc *Context) (time.Duration, error) {
	var total time.Duration

	if raw, ok := params["minus"]; ok {
		resolved, err := resolveParamValue(raw, rc)
		if err != nil {
			return 0, err
		}
		dur, err := parseDuration(resolved)
		if err != nil {
			return 0, err
		}
		total -= dur
	}

	if raw, ok := params["plus"]; ok {
		resolved, err := resolveParamValue(raw, rc)
		if err != nil {
			return 0, err
		}
		dur, err := parseDuration(resolved)
		if err != nil {
			return 0, err
		}
		total += dur
	}

	return total, nil
}

// resolveParamValue interpolates a loop variable into a param value. The
// form is i"d": the text before the first quote names an index variable,
// the quoted remainder is a literal suffix. An unknown variable name passes
// the raw value through unchanged; that fallback is deliberate, so literal
// quoted values keep working.
func resolveParamValue(value string, rc *Context) (string, error) {
	quote := strings.Index(value, `"`)
	if quote < 0 {
		return value, nil
	}

	varName := value[:quote]
	suffix := strings.TrimRight(value[quote+1:], `"`)

	val, ok := rc.LoopVars[varName]
	if !ok {
		return value, nil
	}
	if !val.IsIndex() {
		return "", fmt.Errorf("%w: %q cannot interpolate into a duration", ErrInterpolationMismatch, varName)
	}

	return strconv.FormatInt(val.Index, 10) + suffix, nil
}

// parseDuration parses <integer><unit> with unit d, h, or m.
func parseDuration(input string) (time.Duration, error) {
	if input == "" {
		return 0, fmt.Errorf("%w: empty duration", ErrInvalidDuration)
	}

	numStr, unit := input[:len(input)-1], input[len(input)-1:]
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrInvalidDuration, numStr)
	}

	switch unit {
	case "d":
		return time.Duration(num) * 24 * time.Hour, nil
	case "h":
		return time.Duration(num) * time.Hour, nil
	case "m":
		return time.Duration(num) * time.Minute, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidDuration, unit)
	}
}
