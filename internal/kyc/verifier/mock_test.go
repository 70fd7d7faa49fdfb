package verifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyc-gateway/internal/kyc/models"
	id "kyc-gateway/pkg/domain"
)

func doc(name string) *models.Document {
	return &models.Document{
		ID:           id.NewDocumentID(),
		UserID:       id.NewUserID(),
		OriginalName: name,
		Status:       models.DocumentStatusValidating,
	}
}

// Verdict is a pure function of the declared name; timing never factors in.
func TestMockVerdictByName(t *testing.T) {
	m := NewMock(0, 0)
	ctx := context.Background()

	cases := []struct {
		name     string
		accepted bool
	}{
		{"id_valid.png", true},
		{"VALID_passport.pdf", true},
		{"myValidID.jpg", true},
		{"id_card.png", false},
		{"passport.pdf", false},
	}
	for _, tc := range cases {
		out, err := m.Verify(ctx, doc(tc.name))
		require.NoError(t, err)
		assert.Equal(t, tc.accepted, out.Accepted, tc.name)
		assert.NotEmpty(t, out.Reason)
		assert.NotEqual(t, id.VerificationID{}, out.VerificationID)
	}
}

func TestMockDelayBounds(t *testing.T) {
	m := NewMock(10*time.Millisecond, 30*time.Millisecond)

	start := time.Now()
	_, err := m.Verify(context.Background(), doc("id_valid.png"))
	require.NoError(t, err)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
}

func TestMockHonorsCancellation(t *testing.T) {
	m := NewMock(time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Verify(ctx, doc("id_valid.png"))
	require.ErrorIs(t, err, context.Canceled)
}
