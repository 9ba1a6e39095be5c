// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Both CUE inputs of resxgen go through the same three steps: the project
// file (resxgen.cue) and the user configuration (config.cue).
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode into a Go struct
//
// # Usage
//
//	//go:embed project_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[File](schema, data, "#Project",
//	    cueutil.WithFilename("resxgen.cue"))
//	if err != nil {
//	    return nil, err // carries the CUE path of the offending field
//	}
//	return res.Value, nil
package cueutil
