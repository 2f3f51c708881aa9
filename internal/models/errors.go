package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidOdds   = errors.New("odds value must be greater than 1.0")
	ErrIncompleteH2H = errors.New("three-way market is missing an outcome price")
)
