package leads

import "errors"

var (
	// ErrMissingEmail is returned when a lead has no email identity.
	ErrMissingEmail = errors.New("leads: email is required")

	// ErrInvalidName is returned when neither name field is set.
	ErrInvalidName = errors.New("leads: a name is required")

	// ErrInvalidChannel is returned for an unrecognized preferred channel.
	ErrInvalidChannel = errors.New("leads: unknown preferred channel")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("leads: lead not found")

	// ErrDuplicateEmail is returned when a lead with the email already exists.
	ErrDuplicateEmail = errors.New("leads: email already registered")
)
