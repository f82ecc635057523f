// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrEventEnded indicates a state conflict (generating a code
// for an event that is already over), while ErrRateLimited signals that
// a participant is writing faster than the activity allows. The message
// of ErrRateLimited deliberately starts with "Rate limited" because the
// mobile client pattern-matches on that substring.
package repository

import "errors"

// ErrEventNotFound is returned when an event id or reference does not
// resolve to a row. Handlers should translate this into HTTP 404.
var ErrEventNotFound = errors.New("event not found")

// ErrEventEnded is returned when an operation requires an event that has
// not ended yet, such as generating an access code. Handlers should
// translate this into HTTP 409.
var ErrEventEnded = errors.New("Cannot create code for ended event")

// ErrActivityNotFound is returned when a live activity id does not
// resolve to a row.
var ErrActivityNotFound = errors.New("activity not found")

// ErrActivityNotLive is returned when a reaction or chat message targets
// an activity that is not currently live.
var ErrActivityNotLive = errors.New("activity is not live")

// ErrParticipantNotFound is returned when a participant id does not
// resolve to a row.
var ErrParticipantNotFound = errors.New("participant not found")

// ErrRateLimited is returned when a participant reacts again inside the
// cooldown window. The "Rate limited" prefix is part of the client
// contract; do not reword it.
var ErrRateLimited = errors.New("Rate limited: please wait before reacting again")
