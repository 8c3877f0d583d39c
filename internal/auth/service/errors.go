package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown emails and wrong secrets so
	// a caller cannot probe which addresses have accounts.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrAccountInactive is returned only after the credentials matched.
	ErrAccountInactive = errors.New("account_inactive")

	ErrAccountNotFound = errors.New("account_not_found")
	ErrEmailTaken      = errors.New("email_taken")
	ErrWeakSecret      = errors.New("weak_secret")
	ErrUnknownRole     = errors.New("unknown_role")
	ErrSelfDeletion    = errors.New("self_deletion")
	ErrEmptyPatch      = errors.New("empty_patch")
	ErrAlreadySeeded   = errors.New("already_seeded")
)
