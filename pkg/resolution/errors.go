// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package resolution

import (
	"errors"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/oci"
	"daml.com/x/artifacts/pkg/selector"
	"daml.com/x/artifacts/pkg/variant"
)

const (
	NoArtifactsSelected  = "NO_ARTIFACTS_SELECTED"
	InconsistentMetadata = "INCONSISTENT_METADATA"
	ArtifactNotFound     = "ARTIFACT_NOT_FOUND"
	MalformedGraph       = "MALFORMED_GRAPH"
	UnknownError         = "UNKNOWN_ERROR"
)

type ResolutionError struct {
	Code  string
	Cause error
}

func (r *ResolutionError) Error() string {
	if r.Cause != nil {
		return r.Code + ": " + r.Cause.Error()
	}
	return r.Code
}

func (r *ResolutionError) MarshalYAML() (interface{}, error) {
	var causeStr string
	if r.Cause != nil {
		causeStr = r.Cause.Error()
	}
	return map[string]interface{}{
		"code":  r.Code,
		"cause": causeStr,
	}, nil
}

func (r *ResolutionError) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var aux struct {
		Code  string `yaml:"code"`
		Cause string `yaml:"cause"`
	}
	if err := unmarshal(&aux); err != nil {
		return err
	}
	r.Code = aux.Code
	if aux.Cause != "" {
		r.Cause = errors.New(aux.Cause)
	}
	return nil
}

func (r *ResolutionError) Unwrap() error {
	return r.Cause
}

var _ error = (*ResolutionError)(nil)

func NewMalformedGraphError(cause error) *ResolutionError {
	return &ResolutionError{
		Code:  MalformedGraph,
		Cause: cause,
	}
}

func NewUnknownError(cause error) *ResolutionError {
	return &ResolutionError{
		Code:  UnknownError,
		Cause: cause,
	}
}

var codes = []struct {
	sentinel error
	code     string
}{
	{selector.ErrNoArtifactsSelected, NoArtifactsSelected},
	{variant.ErrInconsistentMetadata, InconsistentMetadata},
	{oci.ErrAnnotationMismatch, InconsistentMetadata},
	{artifact.ErrArtifactNotFound, ArtifactNotFound},
}

// Standardize turns any error into a coded ResolutionError, keeping the original as the cause
func Standardize(err error) *ResolutionError {
	if err == nil {
		return nil
	}

	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return resErr
	}

	for _, c := range codes {
		if errors.Is(err, c.sentinel) {
			return &ResolutionError{Code: c.code, Cause: err}
		}
	}
	return NewUnknownError(err)
}
