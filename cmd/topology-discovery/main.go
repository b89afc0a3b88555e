// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jaegertracing/topology-discovery/cmd/topology-discovery/app"
	"github.com/jaegertracing/topology-discovery/internal/config"
	"github.com/jaegertracing/topology-discovery/internal/discovery"
	"github.com/jaegertracing/topology-discovery/internal/relationgraph"
	"github.com/jaegertracing/topology-discovery/internal/spanstore"
	"github.com/jaegertracing/topology-discovery/internal/tlscfg"
)

const httpTimeout = 60 * time.Second

func main() {
	logger, err := newLogger()
	if err != nil {
		log.Fatalln(err)
	}
	v := viper.New()
	cfg := &app.Config{}

	command := &cobra.Command{
		Use:   "jaeger-topology-discovery",
		Short: "Jaeger topology-discovery publishes the service topology derived from spans",
		Long:  "Jaeger topology-discovery periodically reads spans from Elasticsearch, reconstructs the service invocation graph and publishes it to the relation graph",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg.InitFromViper(v)

			tlsCfg, err := tlscfg.Options{
				CAPath:   cfg.ESCAPath,
				CertPath: cfg.ESCertPath,
				KeyPath:  cfg.ESKeyPath,
			}.Config()
			if err != nil {
				return err
			}
			esClient, err := elastic.NewClient(
				elastic.SetURL(cfg.ESURL),
				elastic.SetHttpClient(&http.Client{
					Timeout: httpTimeout,
					Transport: &http.Transport{
						Proxy:           http.ProxyFromEnvironment,
						TLSClientConfig: tlsCfg,
					},
				}),
				elastic.SetSniff(false),
				elastic.SetHealthcheck(false),
				elastic.SetDecoder(&elastic.NumberDecoder{}),
			)
			if err != nil {
				return err
			}

			publisher := &relationgraph.Client{
				Client: &http.Client{
					Timeout: httpTimeout,
					Transport: &http.Transport{
						Proxy: http.ProxyFromEnvironment,
						// The relation graph runs in-cluster behind a
						// service certificate the discoverer cannot verify.
						TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
					},
				},
				Endpoint: cfg.RGURL,
			}

			discoverer, err := discovery.NewDiscoverer(logger, spanstore.NewSpanReader(esClient, logger), publisher, cfg.StateDir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			discoverer.Run(ctx, time.Duration(cfg.IntervalSeconds)*time.Second)
			return nil
		},
	}

	config.AddFlags(v, command, cfg.AddFlags)

	if err := command.Execute(); err != nil {
		log.Fatalln(err)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = parsed
	}
	return cfg.Build()
}
