// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	vault "github.com/hashicorp/vault/api"

	"github.com/flexspace/warehouse/pkg/core/config"
)

// defaultSecretsMount is the default mount path of the KV v2 secrets engine.
const defaultSecretsMount = "secret"

// upstreamCredentials represents the upstream API credentials read from
// Vault.
type upstreamCredentials struct {
	username string
	password string
	token    string
}

// readUpstreamCredentials reads the upstream API credentials from the
// configured Vault KV v2 secret.
func readUpstreamCredentials(ctx context.Context, conf *config.Config) (upstreamCredentials, error) {
	var creds upstreamCredentials

	vaultConf := vault.DefaultConfig()
	vaultConf.Address = conf.Vault.Endpoint

	client, err := vault.NewClient(vaultConf)
	if err != nil {
		return creds, err
	}

	if conf.Vault.Token != "" {
		client.SetToken(conf.Vault.Token)
	}

	mount := conf.Vault.SecretsMount
	if mount == "" {
		mount = defaultSecretsMount
	}

	secret, err := client.KVv2(mount).Get(ctx, conf.Vault.SecretPath)
	if err != nil {
		return creds, err
	}

	stringValue := func(key string) string {
		v, ok := secret.Data[key]
		if !ok {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			return ""
		}

		return s
	}

	creds.username = stringValue("username")
	creds.password = stringValue("password")
	creds.token = stringValue("token")

	slog.Info(
		"read upstream credentials from vault",
		"endpoint", conf.Vault.Endpoint,
		"mount", mount,
		"path", conf.Vault.SecretPath,
	)

	return creds, nil
}
