package parsers

import (
	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
)

// Parser decodes a raw export container into typed record collections.
type Parser interface {
	Parse(data []byte) (*matchdto.Container, error)
}
