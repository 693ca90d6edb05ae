package learn

import (
	"fmt"
	"time"
)

type SkipReason string

const (
	NotSkipped SkipReason = ""
	TooLong    SkipReason = "too long"
	NoParse    SkipReason = "no parse"
)

// ItemStats records what happened while processing one item in one epoch
type ItemStats struct {
	Epoch, Item       int
	Skipped           SkipReason
	GoldOptimal       bool
	HasValidParse     bool
	TriggeredUpdate   bool
	NewLexicalEntries int
	ParseTime         time.Duration
	Duration          time.Duration
}

func (s *ItemStats) String() string {
	if s.Skipped != NotSkipped {
		return fmt.Sprintf("item %d skipped (%s)", s.Item, s.Skipped)
	}
	return fmt.Sprintf("item %d optimal=%v valid=%v update=%v lex+%d parse=%v total=%v",
		s.Item, s.GoldOptimal, s.HasValidParse, s.TriggeredUpdate, s.NewLexicalEntries,
		s.ParseTime, s.Duration)
}

type EpochStats struct {
	Epoch             int
	Processed         int
	TooLong, NoParse  int
	GoldOptimal       int
	HasValidParse     int
	Updates           int
	NewLexicalEntries int
	Duration          time.Duration
}

func (e *EpochStats) Add(s *ItemStats) {
	switch s.Skipped {
	case TooLong:
		e.TooLong++
		return
	case NoParse:
		e.NoParse++
	}
	e.Processed++
	if s.GoldOptimal {
		e.GoldOptimal++
	}
	if s.HasValidParse {
		e.HasValidParse++
	}
	if s.TriggeredUpdate {
		e.Updates++
	}
	e.NewLexicalEntries += s.NewLexicalEntries
}

func (e *EpochStats) String() string {
	return fmt.Sprintf("epoch %d processed %d (too long %d, no parse %d) gold optimal %d valid %d updates %d new entries %d in %v",
		e.Epoch, e.Processed, e.TooLong, e.NoParse, e.GoldOptimal, e.HasValidParse,
		e.Updates, e.NewLexicalEntries, e.Duration)
}
