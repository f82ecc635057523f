package model

import "time"

// AccessCode is a short human-enterable code that grants entry to one
// event.  Codes are six characters drawn from an alphabet that excludes
// visually ambiguous symbols.  A code may carry an optional usage cap;
// each successful use increments UseCount.  This struct corresponds to a
// row in the `access_codes` table.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event this code grants entry to.
//  Code      – unique six character code (uppercase).
//  IsActive  – whether the code may still be used.
//  MaxUses   – optional cap on successful uses (nil means unlimited).
//  UseCount  – number of successful uses so far (monotonic).
//  CreatedAt – creation timestamp.
type AccessCode struct {
	ID        uint64    // access_codes.id
	EventID   uint64    // access_codes.event_id
	Code      string    // access_codes.code
	IsActive  bool      // access_codes.is_active
	MaxUses   *uint32   // access_codes.max_uses (nullable)
	UseCount  uint32    // access_codes.use_count
	CreatedAt time.Time // access_codes.created_at
}

// Exhausted reports whether the code's usage cap has been reached.  A
// code without a cap is never exhausted.
func (a AccessCode) Exhausted() bool {
	return a.MaxUses != nil && a.UseCount >= *a.MaxUses
}
