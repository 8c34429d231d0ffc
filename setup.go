// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var errNoAggregatorSection = errors.New("configuration has no aggregator section: magpie needs at least one event source to enrich")

func setupFlagSet(fs *pflag.FlagSet) {
	fs.StringP("file", "f", "", "configuration file to use instead of the search path")
	fs.BoolP("debug", "d", false, "force debug logging regardless of configuration")
	fs.BoolP("version", "v", false, "print version and exit")
}

// setup parses the command line, loads the magpie configuration and
// builds the logger it describes. The viper instance it returns carries
// every config section the fx providers unmarshal later.
func setup(args []string) (*viper.Viper, *zap.Logger, error) {
	l, err := zap.NewDevelopment() // until the configured logger exists
	if err != nil {
		return nil, l, fmt.Errorf("bootstrap logger: %w", err)
	}

	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	setupFlagSet(fs)
	if err := fs.Parse(args); err != nil {
		return nil, l, err
	}
	if printVersion, _ := fs.GetBool("version"); printVersion {
		printVersionInfo()
	}

	v, err := loadConfig(fs)
	if err != nil {
		return v, l, err
	}

	l, err = buildLogger(v)
	return v, l, err
}

// loadConfig reads the magpie config file and layers MAGPIE_* environment
// variables over it, so deployments can override single keys (e.g.
// MAGPIE_GW2_APIKEY) without editing the file.
func loadConfig(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(applicationName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file, _ := fs.GetString("file"); len(file) > 0 {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(applicationName)
		v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
		v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		return v, fmt.Errorf("reading %s configuration: %w", applicationName, err)
	}
	if !v.IsSet("aggregator") {
		return v, errNoAggregatorSection
	}

	if debug, _ := fs.GetBool("debug"); debug {
		v.Set("logging.level", "DEBUG")
	}
	return v, nil
}

func buildLogger(v *viper.Viper) (*zap.Logger, error) {
	var c sallust.Config
	if err := v.UnmarshalKey("logging", &c, arrange.ComposeDecodeHooks(sallust.DecodeHook)); err != nil {
		return nil, fmt.Errorf("decoding logging configuration: %w", err)
	}
	return c.Build()
}

func printVersionInfo() {
	fmt.Fprintf(os.Stdout, "%s:\n", applicationName)
	fmt.Fprintf(os.Stdout, "  version: \t%s\n", Version)
	fmt.Fprintf(os.Stdout, "  go version: \t%s\n", runtime.Version())
	fmt.Fprintf(os.Stdout, "  built time: \t%s\n", BuildTime)
	fmt.Fprintf(os.Stdout, "  git commit: \t%s\n", GitCommit)
	fmt.Fprintf(os.Stdout, "  os/arch: \t%s/%s\n", runtime.GOOS, runtime.GOARCH)
	os.Exit(0)
}
