package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDocumentStatusTransitions pins monotonicity: a document leaves
// validating for exactly one terminal verdict and never moves again.
func TestDocumentStatusTransitions(t *testing.T) {
	cases := []struct {
		from    DocumentStatus
		to      DocumentStatus
		allowed bool
	}{
		{DocumentStatusValidating, DocumentStatusValid, true},
		{DocumentStatusValidating, DocumentStatusInvalid, true},
		{DocumentStatusValidating, DocumentStatusValidating, false},
		{DocumentStatusValid, DocumentStatusInvalid, false},
		{DocumentStatusValid, DocumentStatusValidating, false},
		{DocumentStatusInvalid, DocumentStatusValid, false},
		{DocumentStatusInvalid, DocumentStatusValidating, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestDocumentStatusTerminal(t *testing.T) {
	assert.False(t, DocumentStatusValidating.IsTerminal())
	assert.True(t, DocumentStatusValid.IsTerminal())
	assert.True(t, DocumentStatusInvalid.IsTerminal())
}
