// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	nexudusclients "github.com/flexspace/warehouse/pkg/clients/nexudus"
	"github.com/flexspace/warehouse/pkg/core/config"
	"github.com/flexspace/warehouse/pkg/nexudus/api"
)

// configureNexudusClient creates the Nexudus API client from the given config
// and registers it for use by the collection tasks.
func configureNexudusClient(ctx context.Context, conf *config.Config) error {
	if conf.Nexudus.Endpoint == "" {
		slog.Warn("nexudus endpoint is not configured, will not create API client")

		return nil
	}

	username := conf.Nexudus.Username
	password := conf.Nexudus.Password
	token := conf.Nexudus.Token

	// Credentials from Vault take precedence over the config file.
	if conf.Vault.Endpoint != "" {
		creds, err := readUpstreamCredentials(ctx, conf)
		if err != nil {
			return fmt.Errorf("cannot read credentials from vault: %w", err)
		}
		username = creds.username
		password = creds.password
		token = creds.token
	}

	var tokens api.TokenSource
	if token != "" {
		tokens = api.NewStaticTokenSource(token)
	} else {
		source, err := api.NewCredentialsTokenSource(conf.Nexudus.Endpoint, username, password, nil)
		if err != nil {
			return err
		}
		tokens = source
	}

	opts := make([]api.Option, 0)
	if conf.Nexudus.PageSize > 0 {
		opts = append(opts, api.WithPageSize(conf.Nexudus.PageSize))
	}
	if conf.Nexudus.MaxInFlight > 0 {
		opts = append(opts, api.WithMaxInFlight(conf.Nexudus.MaxInFlight))
	}

	client, err := api.New(conf.Nexudus.Endpoint, tokens, opts...)
	if err != nil {
		return err
	}

	nexudusclients.SetClient(client)
	slog.Info("configured nexudus client", "endpoint", conf.Nexudus.Endpoint)

	return nil
}
