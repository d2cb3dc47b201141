/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package model

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeYAML reads a schedule description document. Unknown keys are rejected
// so that typos do not silently drop data.
func DecodeYAML(r io.Reader) (*Schedule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Schedule
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty schedule document", ErrMalformedData)
		}
		return nil, fmt.Errorf("%w: decode schedule document: %v", ErrMalformedData, err)
	}
	return &s, nil
}

// ReadYAMLFile opens path and decodes it with DecodeYAML.
func ReadYAMLFile(path string) (*Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: schedule document %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	s, err := DecodeYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// EncodeYAML writes s as a schedule description document.
func EncodeYAML(w io.Writer, s *Schedule) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: encode schedule document: %v", ErrIO, err)
	}
	return enc.Close()
}
