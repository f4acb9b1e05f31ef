package ml

import "errors"

var (
	ErrMissingColumn        = errors.New("missing column")
	ErrInvalidValue         = errors.New("invalid value")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrFeatureCount         = errors.New("feature count mismatch")
	ErrNaNInput             = errors.New("input contains NaN")
	ErrInfInput             = errors.New("input contains infinity")
	ErrUnsupportedModel     = errors.New("unsupported model type")
	ErrUnsupportedTransform = errors.New("unsupported transform kind")
	ErrNotFitted            = errors.New("artifact is empty")
)
