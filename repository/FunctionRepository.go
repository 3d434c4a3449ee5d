package repository

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

func GenerateRandomNumber() int {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return rng.Intn(900000000) + 100000000
}

// GenerateRunCode builds a short build-run identifier in the format
// "BR" + 5 digits, e.g. "BR48291".
func GenerateRunCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	number := rng.Intn(90000) + 10000

	return fmt.Sprintf("BR%d", number)
}

// GenerateEnclosureCode combines a room code and a sequence number into the
// identifier format "ROOMCODE/0001" used in exports and reports.
func GenerateEnclosureCode(roomCode string, sequenceNumber int) string {
	formattedCode := strings.ToUpper(roomCode)
	formattedSequence := fmt.Sprintf("%04d", sequenceNumber)

	return formattedCode + "/" + formattedSequence
}
