package domain

import "errors"

var (
	ErrJobNotFound   = errors.New("generation job not found")
	ErrInvalidStatus = errors.New("invalid job status")
)
