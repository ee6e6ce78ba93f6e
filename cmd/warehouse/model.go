// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"text/template"

	"github.com/urfave/cli/v2"

	"github.com/flexspace/warehouse/pkg/core/registry"
)

// errNoQueryTemplate is an error which is returned by the query sub-command,
// when an expected [text/template] body was not specified.
var errNoQueryTemplate = errors.New("no query template specified")

// NewModelCommand returns a new command for interfacing with the models.
func NewModelCommand() *cli.Command {
	cmd := &cli.Command{
		Name:    "model",
		Usage:   "model operations",
		Aliases: []string{"m"},
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Usage:   "list registered models",
				Aliases: []string{"ls"},
				Action: func(_ *cli.Context) error {
					models := make([]string, 0, registry.ModelRegistry.Length())
					walker := func(name string, _ any) error {
						models = append(models, name)
						return nil
					}

					if err := registry.ModelRegistry.Range(walker); err != nil {
						return err
					}

					sort.Strings(models)
					for _, model := range models {
						fmt.Println(model)
					}

					return nil
				},
			},
			{
				Name:    "query",
				Usage:   "query data for a given model",
				Aliases: []string{"q"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "model",
						Usage:    "model name to query",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "template",
						Usage: "template body to render",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "fetch up to this number of records",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "fetch records starting from this offset",
						Value: 0,
					},
				},
				Before: func(ctx *cli.Context) error {
					conf := getConfig(ctx)
					return validateDBConfig(conf)
				},
				Action: queryModelAction,
			},
		},
	}

	return cmd
}

// queryModelAction fetches records for a registered model and renders them
// using the template provided on the command-line.
func queryModelAction(ctx *cli.Context) error {
	templateBody := ctx.String("template")
	if templateBody == "" {
		return errNoQueryTemplate
	}

	modelName := ctx.String("model")
	model, ok := registry.ModelRegistry.Get(modelName)
	if !ok {
		return fmt.Errorf("model %q not found in registry", modelName)
	}

	offset := ctx.Int("offset")
	if offset < 0 {
		return fmt.Errorf("invalid offset %d", offset)
	}
	limit := ctx.Int("limit")
	if limit < 0 {
		return fmt.Errorf("invalid limit %d", limit)
	}

	tmpl, err := template.New("warehouse").Parse(templateBody)
	if err != nil {
		return err
	}

	conf := getConfig(ctx)
	db := newDB(conf)
	defer db.Close() // nolint: errcheck

	// The registry stores a pointer to the zero value of each model. In
	// order to scan the results we create a new slice of the registered
	// model type, which is then passed to the template.
	modelType := reflect.TypeOf(model).Elem()
	slice := reflect.MakeSlice(reflect.SliceOf(modelType), 0, 0)
	items := reflect.New(slice.Type())
	items.Elem().Set(slice)

	query := db.NewSelect().Model(items.Interface()).Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(ctx.Context); err != nil {
		return err
	}

	return tmpl.Execute(os.Stdout, items.Interface())
}
