package verifier

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"kyc-gateway/internal/kyc/models"
	id "kyc-gateway/pkg/domain"
)

// acceptMarker makes the mock deterministic given the input name: a document
// is accepted iff its original name contains this substring, so tests control
// the verdict through the filename alone.
const acceptMarker = "valid"

// Mock simulates an external verification API: it sleeps for a uniformly
// random delay within [MinDelay, MaxDelay] and then judges the document by
// its declared name.
type Mock struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewMock constructs the mock verifier. Delays outside (0, max] collapse to
// the minimum so a zero-value config still resolves promptly in tests.
func NewMock(minDelay, maxDelay time.Duration) *Mock {
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Mock{minDelay: minDelay, maxDelay: maxDelay}
}

func (m *Mock) Verify(ctx context.Context, doc *models.Document) (Outcome, error) {
	timer := time.NewTimer(m.delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case <-timer.C:
	}

	accepted := strings.Contains(strings.ToLower(doc.OriginalName), acceptMarker)
	reason := "Documents verification failed"
	if accepted {
		reason = "Documents verified successfully"
	}
	return Outcome{
		Accepted:       accepted,
		Reason:         reason,
		VerificationID: id.NewVerificationID(),
	}, nil
}

func (m *Mock) delay() time.Duration {
	if m.maxDelay == m.minDelay {
		return m.minDelay
	}
	return m.minDelay + time.Duration(rand.Int63n(int64(m.maxDelay-m.minDelay)+1))
}
