package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/restkit/errors"
	"github.com/kbukum/restkit/httpclient"
)

// print writes the response body. JSON bodies are indented or converted to
// YAML; other bodies are written unchanged. An empty body prints nothing.
func (a *app) print(resp *httpclient.Response) error {
	if resp == nil || len(resp.Body) == 0 {
		return nil
	}
	body := resp.Body
	if !json.Valid(body) {
		_, err := fmt.Fprintln(a.out, string(body))
		return err
	}

	if a.flags.output == "yaml" {
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return errors.Internal(err)
		}
		out, err := yaml.Marshal(v)
		if err != nil {
			return errors.Internal(err)
		}
		_, err = a.out.Write(out)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return errors.Internal(err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(a.out)
	return err
}

// printError writes err as an error response document.
func printError(w io.Writer, err error) {
	b, _ := json.MarshalIndent(errors.Wrap(err).ToResponse(), "", "  ")
	fmt.Fprintln(w, string(b))
}
