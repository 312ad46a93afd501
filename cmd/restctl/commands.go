package main

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/httpclient/rest"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the resource collection",
		Args:  cobra.NoArgs,
		RunE: withApp(a, func(ctx context.Context, _ []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			resp, err := rest.List[*httpclient.Response](ctx, a.svc, opts)
			if err != nil {
				return err
			}
			return a.print(resp)
		}),
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Fetch one entity",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(a, func(ctx context.Context, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			resp, err := rest.Single[*httpclient.Response](ctx, a.svc, args[0], opts)
			if err != nil {
				return err
			}
			return a.print(resp)
		}),
	}
}

func newAddCmd(a *app) *cobra.Command {
	var (
		data   string
		files  []string
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an entity",
		Long: `Create an entity from a JSON document (--data '{"name":"x"}' or --data @file.json).
With --file the request is sent as multipart/form-data instead; --form adds
plain form fields.`,
		Args: cobra.NoArgs,
		RunE: withApp(a, func(ctx context.Context, _ []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			var body any
			if len(files) > 0 {
				body, err = formBody(files, fields)
			} else {
				body, err = jsonBody(data)
			}
			if err != nil {
				return err
			}
			resp, err := rest.Add[*httpclient.Response](ctx, a.svc, body, opts)
			if err != nil {
				return err
			}
			return a.print(resp)
		}),
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, or @path to read it from a file")
	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "multipart file field=path (repeatable)")
	cmd.Flags().StringArrayVar(&fields, "form", nil, "multipart form field key=value (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var data, method string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace (PUT) or patch (PATCH) an entity",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(a, func(ctx context.Context, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			body, err := jsonBody(data)
			if err != nil {
				return err
			}
			resp, err := rest.Update[*httpclient.Response](ctx, a.svc, args[0], body,
				&rest.UpdateOptions{Options: *opts, Method: method})
			if err != nil {
				return err
			}
			return a.print(resp)
		}),
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, or @path to read it from a file")
	cmd.Flags().StringVarP(&method, "method", "X", "PUT", "PUT or PATCH")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(a, func(ctx context.Context, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			resp, err := rest.Delete[*httpclient.Response](ctx, a.svc, args[0], opts)
			if err != nil {
				return err
			}
			return a.print(resp)
		}),
	}
}

// jsonBody reads --data. An empty value sends no body.
func jsonBody(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.InvalidInput("data", err.Error())
		}
		raw = b
	}
	if !json.Valid(raw) {
		return nil, errors.InvalidInput("data", "body is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func formBody(files, fields []string) (*httpclient.Form, error) {
	form := &httpclient.Form{Fields: url.Values{}}
	for _, kv := range fields {
		k, v, err := splitPair(kv, "--form")
		if err != nil {
			return nil, asInvalidInput(err)
		}
		form.Fields.Add(k, v)
	}
	for _, kv := range files {
		field, path, err := splitPair(kv, "--file")
		if err != nil {
			return nil, asInvalidInput(err)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.InvalidInput("file", err.Error())
		}
		form.AddFile(field, filepath.Clean(path))
	}
	return form, nil
}
