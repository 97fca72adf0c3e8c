package order

import "time"

// Payment tracks the proof of payment and its verification. Uploading proof
// and verifying it are separate steps performed by different actors.
type Payment struct {
	ProofRef        string
	ProofUploadedAt *time.Time
	Verified        bool
	VerifiedAt      *time.Time
	VerifiedBy      string
}

// HasProof reports whether a proof reference has been recorded.
func (p Payment) HasProof() bool {
	return p.ProofRef != ""
}
