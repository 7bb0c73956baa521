// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// strictUnmarshal decodes data into out, failing on unknown keys. An empty
// document leaves out untouched.
func strictUnmarshal(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
