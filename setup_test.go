// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "magpie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tcs := []struct {
		Description string
		Contents    string
		Args        []string
		ExpectedErr error
	}{
		{
			Description: "MissingAggregatorSection",
			Contents:    "gw2:\n  locale: en\n",
			ExpectedErr: errNoAggregatorSection,
		},
		{
			Description: "Success",
			Contents:    "aggregator:\n  sources:\n    - name: core\n      url: http://example.com/events.json\n",
		},
		{
			Description: "DebugOverridesLogLevel",
			Contents:    "aggregator:\n  sources:\n    - name: core\n      url: http://example.com/events.json\nlogging:\n  level: INFO\n",
			Args:        []string{"--debug"},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			path := writeConfigFile(t, tc.Contents)

			fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
			setupFlagSet(fs)
			require.NoError(t, fs.Parse(append([]string{"--file", path}, tc.Args...)))

			v, err := loadConfig(fs)
			if tc.ExpectedErr != nil {
				assert.ErrorIs(err, tc.ExpectedErr)
				return
			}
			require.NoError(t, err)
			if len(tc.Args) > 0 {
				assert.Equal("DEBUG", v.GetString("logging.level"))
			}
		})
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("MAGPIE_GW2_APIKEY", "from-env")
	path := writeConfigFile(t, "aggregator:\n  sources:\n    - name: core\n      url: http://example.com/events.json\n")

	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	setupFlagSet(fs)
	require.NoError(t, fs.Parse([]string{"--file", path}))

	v, err := loadConfig(fs)
	require.NoError(t, err)
	assert.Equal("from-env", v.GetString("gw2.apikey"))
}
