package utils

// names.go generates the anonymous display names used in chat
// activities.  A name is an adjective plus an animal plus a two digit
// number, e.g. "BraveOtter42".  Names are minted once per participant
// per activity and stored; this file only produces the string.

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var nameAdjectives = []string{
	"Brave", "Calm", "Clever", "Curious", "Eager", "Gentle", "Happy",
	"Jolly", "Kind", "Lively", "Lucky", "Mellow", "Nimble", "Proud",
	"Quick", "Quiet", "Silly", "Sly", "Swift", "Witty",
}

var nameAnimals = []string{
	"Badger", "Bear", "Crane", "Dolphin", "Falcon", "Fox", "Heron",
	"Koala", "Lemur", "Lynx", "Marmot", "Otter", "Owl", "Panda",
	"Puffin", "Raven", "Seal", "Tiger", "Walrus", "Wolf",
}

// AnonymousName returns a random adjective+animal+number display name.
// Randomness comes from crypto/rand so concurrent mints do not need a
// seeded source.  Collisions across participants are acceptable; the
// name is a label, not an identifier.
func AnonymousName() (string, error) {
	adj, err := pick(len(nameAdjectives))
	if err != nil {
		return "", err
	}
	animal, err := pick(len(nameAnimals))
	if err != nil {
		return "", err
	}
	num, err := pick(100)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%d", nameAdjectives[adj], nameAnimals[animal], num), nil
}

func pick(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
