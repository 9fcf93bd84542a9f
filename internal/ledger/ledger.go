// Package ledger simulates the on-chain side of payment settlement.
// Nothing here talks to a real network: hashes and addresses are random
// placeholders and settlement is a timer, not a confirmation wait.
package ledger

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewTxHash returns a placeholder transaction hash (0x + 64 hex chars).
func NewTxHash() string {
	return "0x" + randomHex(32)
}

// NewContractAddress returns a placeholder contract address (0x + 40 hex chars).
func NewContractAddress() string {
	return "0x" + randomHex(20)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand on supported platforms does not fail; a zero
		// hash is still a syntactically valid placeholder.
		return hex.EncodeToString(make([]byte, n))
	}
	return hex.EncodeToString(b)
}

// GasFee returns a simulated gas fee for a transfer of the given amount.
// Larger transfers pay slightly more, with a little jitter so repeated
// settlements don't all show the same figure.
func GasFee(amount float64) float64 {
	base := 0.0008 + amount/1e10
	return base + mrand.Float64()*0.0012
}

// SettleFunc finalizes an approved payment. It must be safe to call for
// records that have since left the approved state.
type SettleFunc func(id uuid.UUID) error

// Settler schedules the delayed approved→paid transition. Timers are
// fire-and-forget: once scheduled they cannot be cancelled, matching the
// behavior of the settlement simulation this replaces.
type Settler struct {
	delay  time.Duration
	settle SettleFunc
	log    *zap.Logger
}

func NewSettler(delay time.Duration, settle SettleFunc, log *zap.Logger) *Settler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Settler{delay: delay, settle: settle, log: log}
}

// Schedule arranges for the payment to settle after the configured delay.
// It returns immediately; callers must not assume the transition has
// happened until the delay has elapsed.
func (s *Settler) Schedule(id uuid.UUID) {
	time.AfterFunc(s.delay, func() {
		if err := s.settle(id); err != nil {
			s.log.Warn("settlement skipped", zap.String("payment_id", id.String()), zap.Error(err))
			return
		}
		s.log.Info("payment settled", zap.String("payment_id", id.String()))
	})
}
