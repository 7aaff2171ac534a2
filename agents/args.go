package agents

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Args are the options given to an agent on the command line.
type Args map[string]string

// ParseArgs reads "key=value,flag" lists. A key without a value is set to "1".
func ParseArgs(s string) (Args, error) {
	args := Args{}
	if strings.TrimSpace(s) == "" {
		return args, nil
	}
	for _, piece := range strings.Split(s, ",") {
		key, value, found := strings.Cut(piece, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: empty key in %q", ErrBadArgs, s)
		}
		if !found {
			value = "1"
		}
		args[key] = strings.TrimSpace(value)
	}
	return args, nil
}

func (a Args) String(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrBadArgs, key, v)
	}
	return n, nil
}

func (a Args) Float(key string, def float64) (float64, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrBadArgs, key, v)
	}
	return f, nil
}

func (a Args) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrBadArgs, key, v)
	}
	return d, nil
}
