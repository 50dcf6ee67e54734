package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDocument = "graphsmith/document/v1"
	DomainParams   = "graphsmith/params/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentHash computes the content-addressed identity of a document.
// Two builds from identical validated parameters share a hash.
func DocumentHash(doc Document) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("DocumentHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDocument, canonical), nil
}

// ParamsHash computes the identity of a validated parameter set.
func ParamsHash(values map[string]Value) (string, error) {
	canonical, err := MarshalCanonical(values)
	if err != nil {
		return "", fmt.Errorf("ParamsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainParams, canonical), nil
}

// MustDocumentHash is like DocumentHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDocumentHash(doc Document) string {
	h, err := DocumentHash(doc)
	if err != nil {
		panic(err)
	}
	return h
}
