// Package selection decides which questions a candidate sees and in what order.
package selection

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"strconv"
)

const (
	// MaxBankSize caps a question bank when an assessment is created.
	MaxBankSize = 150
	// MaxPresented caps the questions shown in one attempt.
	MaxPresented = 100
)

// Selector derives the presented subset of an attempt. The subset depends only
// on (secret, assessment, user, attempt number), so a reload shows the same
// questions and the server can recompute them at grading time.
type Selector struct {
	secret string
	limit  int
}

func NewSelector(secret string, limit int) *Selector {
	if limit <= 0 {
		limit = MaxPresented
	}
	return &Selector{secret: secret, limit: limit}
}

func (s *Selector) Limit() int {
	return s.limit
}

// Pick returns question ids in presentation order, at most Limit() of them.
func (s *Selector) Pick(assessmentID, userID string, attemptNumber int, questionIDs []string) []string {
	out := make([]string, len(questionIDs))
	copy(out, questionIDs)

	rng := rand.New(s.source(assessmentID, userID, attemptNumber))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	if len(out) > s.limit {
		out = out[:s.limit]
	}
	return out
}

func (s *Selector) source(assessmentID, userID string, attemptNumber int) rand.Source {
	h := sha256.New()
	for _, part := range []string{s.secret, assessmentID, userID, strconv.Itoa(attemptNumber)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return rand.NewPCG(binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16]))
}

// Limit shuffles items and keeps at most n. n <= 0 keeps everything.
func Limit[T any](items []T, n int) []T {
	out := make([]T, len(items))
	copy(out, items)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
