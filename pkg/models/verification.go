package models

import "time"

// VerificationStatus is the outcome class of a verification.
type VerificationStatus string

const (
	VERIFIED   VerificationStatus = "verified"
	UNVERIFIED VerificationStatus = "unverified"
	// AWAITING_CONFIRMATION means the hash matches but the anchor is below the required depth.
	AWAITING_CONFIRMATION VerificationStatus = "pending"
)

// IssuerInfo describes who issued the verified record and where it is anchored.
type IssuerInfo struct {
	ProviderID   string `json:"provider_id,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	Network      string `json:"network"`
}

// VerificationResult is the answer of the verification oracle.
// A mismatch is reported here, never as an error.
type VerificationResult struct {
	RecordID      string             `json:"record_id"`
	IsVerified    bool               `json:"is_verified"`
	Status        VerificationStatus `json:"status"`
	Reason        string             `json:"reason,omitempty"`
	ExpectedHash  string             `json:"expected_hash,omitempty"`
	AnchoredHash  string             `json:"anchored_hash,omitempty"`
	Confirmations uint64             `json:"confirmations"`
	AnchorProof   *ChainAnchor       `json:"anchor_proof,omitempty"`
	IssuerInfo    IssuerInfo         `json:"issuer_info"`
	CheckedAt     time.Time          `json:"checked_at"`
}
