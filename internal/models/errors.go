package models

import "errors"

var (
	ErrNoData       = errors.New("no data")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	ErrWrongCredentials = errors.New("wrong credentials")

	ErrRemarksRequired   = errors.New("remarks are required to leave pending status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrNotEditable       = errors.New("record is not editable")
)
