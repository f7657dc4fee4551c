package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainHistory = "lightcone/history/v1"
	DomainEvents  = "lightcone/events/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HistoryHash computes the content-addressed identity of a history.
// The selected level is part of the identity; display order is too.
func HistoryHash(h History) (string, error) {
	obj := map[string]any{
		"name":             h.Name,
		"consistencyLevel": string(h.Level),
		"events":           CanonicalEvents(h.Events),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("HistoryHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainHistory, canonical), nil
}

// EventsHash identifies an event collection independent of name and level.
// Two snapshots with equal EventsHash place every event identically.
func EventsHash(es Events) (string, error) {
	canonical, err := MarshalCanonical(CanonicalEvents(es))
	if err != nil {
		return "", fmt.Errorf("EventsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEvents, canonical), nil
}
