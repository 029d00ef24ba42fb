package service

import "errors"

var (
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrResultNotFound       = errors.New("result not found")
	ErrAlreadyAttempted     = errors.New("assessment already attempted")
	ErrInvalidAssessment    = errors.New("invalid assessment")
	ErrGeneratorUnavailable = errors.New("question generator unavailable")
)
