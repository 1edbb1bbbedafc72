package domain

import "errors"

// Domain errors
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidRole     = errors.New("invalid role")
	ErrAccessDenied    = errors.New("access denied")
	ErrLastAdmin       = errors.New("at least one admin must remain")
	ErrSelfRoleChange  = errors.New("own role cannot be changed through this path")
	ErrWizardActive    = errors.New("another wizard is already active")
	ErrNothingToSelect = errors.New("nothing to select")
	ErrNoActiveReport  = errors.New("no active shift report")
)
