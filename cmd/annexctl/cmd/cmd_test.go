package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/VybCoding/OneWonderLake/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVariantsCommand(t *testing.T) {
	out, err := run(t, "variants", "123", "Lake", "Shore", "Rd")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, " 1  123 Lake Shore Rd, Wonder Lake, IL", lines[0])
	assert.Equal(t, " 2  123 Lake Shore Rd", lines[1])
}

func TestVariantsCommand_Blank(t *testing.T) {
	_, err := run(t, "variants", "   ")
	assert.Error(t, err)
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "classify", "--lat", "42.385", "--lon", "-88.395")
	require.NoError(t, err)

	var c geo.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, geo.StatusOtherMunicipality, c.Status)
	assert.Equal(t, "VILLAGE OF GREENWOOD", c.Municipality)

	out, err = run(t, "classify", "--lat", "42.38", "--lon", "-88.35")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "resident"`)
}

func TestClassifyCommand_MissingFlag(t *testing.T) {
	_, err := run(t, "classify", "--lat", "42.38")
	assert.Error(t, err)
}

func TestCreateAdmin_ShortPassword(t *testing.T) {
	_, err := run(t, "create-admin", "--username", "ann", "--password", "short")
	assert.ErrorContains(t, err, "at least 8 characters")
}
