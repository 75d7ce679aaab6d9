package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// enumFlag is a string flag restricted to a fixed set of values. Type reports
// "string" so GetString keeps working on it.
type enumFlag struct {
	value   string
	allowed []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(allowed ...string) *enumFlag {
	return &enumFlag{allowed: allowed}
}

func (f *enumFlag) String() string { return f.value }

func (f *enumFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if v != "" && !slices.Contains(f.allowed, v) {
		return fmt.Errorf("must be one of %s", strings.Join(f.allowed, ", "))
	}
	f.value = v
	return nil
}

func (f *enumFlag) Type() string { return "string" }

// optInt returns the flag value only when the user set it.
func optInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

func optFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

func optString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// optTime parses an RFC 3339 flag value; empty means unset.
func optTime(cmd *cobra.Command, name string) (*time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("--%s must be an RFC 3339 timestamp: %w", name, err)
	}
	return &t, nil
}

// requireID returns the single positional argument named what.
func requireID(args []string, what string) (string, error) {
	switch {
	case len(args) == 0 || args[0] == "":
		return "", fmt.Errorf("%s is required", what)
	case len(args) > 1:
		return "", errors.New("too many arguments")
	}
	return args[0], nil
}
