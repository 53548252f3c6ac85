package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"docnav/internal/locator"
)

var errNotInitialized = errors.New("server: not initialized")

func stringArg(args []any, i int) (string, error) {
	s, ok := optionalString(args, i)
	if !ok || s == "" {
		return "", fmt.Errorf("argument %d: expected a non-empty string", i)
	}
	return s, nil
}

func optionalString(args []any, i int) (string, bool) {
	if i >= len(args) || args[i] == nil {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

// intArg reads an optional count; JSON numbers arrive as float64.
func intArg(args []any, i int) (int, error) {
	if i >= len(args) || args[i] == nil {
		return 0, nil
	}
	switch v := args[i].(type) {
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, fmt.Errorf("argument %d: %v is not a page count", i, v)
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		n, err := v.Int64()
		return int(n), err
	}
	return 0, fmt.Errorf("argument %d: expected a number, got %T", i, args[i])
}

// locatorArg accepts a locator as text ("page=3", "#sheet=A!B2") or as
// its JSON object form.
func locatorArg(args []any, i int) (*locator.Locator, error) {
	if i >= len(args) || args[i] == nil {
		return nil, nil
	}
	switch v := args[i].(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		loc, ok := locator.Parse(v)
		if !ok {
			return nil, fmt.Errorf("argument %d: %q is not a locator", i, v)
		}
		return &loc, nil
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var loc locator.Locator
		if err := json.Unmarshal(data, &loc); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		if !loc.Valid() {
			return nil, fmt.Errorf("argument %d: invalid locator %v", i, loc)
		}
		return &loc, nil
	}
	return nil, fmt.Errorf("argument %d: expected a locator, got %T", i, args[i])
}

func equalFoldExt(a, b string) bool {
	return strings.EqualFold(strings.TrimPrefix(a, "."), strings.TrimPrefix(b, "."))
}

// dirOf is the parent of p for both slash styles.
func dirOf(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i > 0 {
		return p[:i]
	} else if i == 0 {
		return p[:1]
	}
	return ""
}
