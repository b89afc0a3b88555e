// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

// Package app holds the CLI configuration of topology discovery.
package app

import (
	"flag"

	"github.com/spf13/viper"
)

const (
	esURL    = "es-url"
	esCA     = "es-ca"
	esCert   = "es-cert"
	esKey    = "es-key"
	rgURL    = "rg-url"
	interval = "interval"
	state    = "state"

	defaultInterval = 60
)

// Config holds the global configuration of topology discovery.
type Config struct {
	ESURL           string
	ESCAPath        string
	ESCertPath      string
	ESKeyPath       string
	RGURL           string
	IntervalSeconds int
	StateDir        string
}

// AddFlags adds flags
func (*Config) AddFlags(flags *flag.FlagSet) {
	flags.String(esURL, "", "Elasticsearch URL")
	flags.String(esCA, "", "Path to the CA bundle verifying the Elasticsearch server")
	flags.String(esCert, "", "Path to the client certificate presented to Elasticsearch")
	flags.String(esKey, "", "Path to the client key presented to Elasticsearch")
	flags.String(rgURL, "", "Relation graph base URL")
	flags.Int(interval, defaultInterval, "Discovery interval in seconds")
	flags.String(state, "", "Directory holding the state snapshot")
}

// InitFromViper initializes config from viper.Viper.
func (c *Config) InitFromViper(v *viper.Viper) {
	c.ESURL = v.GetString(esURL)
	c.ESCAPath = v.GetString(esCA)
	c.ESCertPath = v.GetString(esCert)
	c.ESKeyPath = v.GetString(esKey)
	c.RGURL = v.GetString(rgURL)
	c.IntervalSeconds = v.GetInt(interval)
	c.StateDir = v.GetString(state)
}
