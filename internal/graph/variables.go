package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"feedgraph/internal/repository"
)

// Variables are the decoded JSON arguments of an operation.
type Variables map[string]any

func (v Variables) ID(name string) (uint, error) {
	id, ok, err := v.optUint(name)
	if err != nil {
		return 0, err
	}
	if !ok || id == 0 {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return id, nil
}

func (v Variables) OptID(name string) (*uint, error) {
	id, ok, err := v.optUint(name)
	if err != nil || !ok {
		return nil, err
	}
	return &id, nil
}

func (v Variables) String(name string) (string, error) {
	s, err := v.OptString(name)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return *s, nil
}

func (v Variables) OptString(name string) (*string, error) {
	raw, ok := v[name]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidArgument, name)
	}
	return &s, nil
}

func (v Variables) OptInt(name string) (*int, error) {
	n, ok, err := v.number(name)
	if err != nil || !ok {
		return nil, err
	}
	i := int(n)
	return &i, nil
}

func (v Variables) IDs(name string) ([]uint, error) {
	raw, ok := v[name]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list", ErrInvalidArgument, name)
	}
	ids := make([]uint, 0, len(list))
	for i, item := range list {
		n, err := toNumber(item)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s[%d] must be a positive id", ErrInvalidArgument, name, i)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

// Page reads the optional limit/offset pair.
func (v Variables) Page() (repository.Page, error) {
	limit, err := v.OptInt("limit")
	if err != nil {
		return repository.Page{}, err
	}
	offset, err := v.OptInt("offset")
	if err != nil {
		return repository.Page{}, err
	}
	if (limit != nil && *limit < 0) || (offset != nil && *offset < 0) {
		return repository.Page{}, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidArgument)
	}
	return repository.NewPage(limit, offset), nil
}

func (v Variables) optUint(name string) (uint, bool, error) {
	n, ok, err := v.number(name)
	if err != nil || !ok {
		return 0, ok, err
	}
	if n < 0 {
		return 0, false, fmt.Errorf("%w: %s must be a positive id", ErrInvalidArgument, name)
	}
	return uint(n), true, nil
}

func (v Variables) number(name string) (int64, bool, error) {
	raw, ok := v[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	n, err := toNumber(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s %v", ErrInvalidArgument, name, err)
	}
	return n, true, nil
}

// toNumber accepts JSON numbers in any of the forms decoders produce, and
// numeric strings for ids.
func toNumber(raw any) (int64, error) {
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, fmt.Errorf("must be an integer")
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("must be a number")
	}
}
