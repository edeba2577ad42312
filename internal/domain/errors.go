package domain

import "errors"

var (
	// ErrInvalidPersona means the dApp, persona, or persona grant referenced
	// by the request does not exist or no longer resolves. Always answered
	// with a wire failure; the relationship itself is broken.
	ErrInvalidPersona = errors.New("invalid persona")

	// ErrMissingChallengeProof means response assembly was asked to build a
	// challenge-bound auth item without a signature. Programming error of the
	// caller, never sent to the dApp.
	ErrMissingChallengeProof = errors.New("missing challenge proof")

	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
)
