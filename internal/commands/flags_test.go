package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestEnumFlag(t *testing.T) {
	f := newEnumFlag("json", "text", "auto")
	require.NoError(t, f.Set("TEXT"))
	require.Equal(t, "text", f.String())
	require.Error(t, f.Set("xml"))
	require.Equal(t, "text", f.String())
	require.NoError(t, f.Set(""))
	require.Empty(t, f.String())
}

func TestEnumFlag_ReadableWithGetString(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Var(newEnumFlag("debug", "info"), "log-level", "")
	require.NoError(t, cmd.Flags().Set("log-level", "debug"))

	v, err := cmd.Flags().GetString("log-level")
	require.NoError(t, err)
	require.Equal(t, "debug", v)
	require.Error(t, cmd.Flags().Set("log-level", "trace"))
}

func TestOptionalFlagsOnlyWhenChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Int("limit", 0, "")
	cmd.Flags().Float64("min", 0, "")
	cmd.Flags().String("title", "", "")
	cmd.Flags().String("from", "", "")

	require.Nil(t, optInt(cmd, "limit"))
	require.Nil(t, optFloat(cmd, "min"))
	require.Nil(t, optString(cmd, "title"))
	from, err := optTime(cmd, "from")
	require.NoError(t, err)
	require.Nil(t, from)

	require.NoError(t, cmd.Flags().Set("limit", "0"))
	require.NoError(t, cmd.Flags().Set("title", ""))
	require.NoError(t, cmd.Flags().Set("from", "2026-01-05T09:00:00Z"))
	require.Equal(t, 0, *optInt(cmd, "limit"))
	require.Equal(t, "", *optString(cmd, "title"))
	from, err = optTime(cmd, "from")
	require.NoError(t, err)
	require.Equal(t, 2026, from.Year())

	require.NoError(t, cmd.Flags().Set("from", "yesterday"))
	_, err = optTime(cmd, "from")
	require.Error(t, err)
}

func TestRequireID(t *testing.T) {
	_, err := requireID(nil, "dream id")
	require.EqualError(t, err, "dream id is required")
	_, err = requireID([]string{"a", "b"}, "dream id")
	require.Error(t, err)
	id, err := requireID([]string{"d1"}, "dream id")
	require.NoError(t, err)
	require.Equal(t, "d1", id)
}
