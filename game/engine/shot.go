package engine

import (
	"errors"
	"fmt"
)

// ResolveShot fires at c on board and describes the outcome with the
// configured messages. Errors are ErrOutOfBounds or ErrAlreadyShot and leave
// the board unchanged.
func ResolveShot(board *Board, c Coord, msgs Messages) (*ShotReport, error) {
	outcome, err := board.RecordShot(c)
	if err != nil {
		return nil, err
	}

	report := &ShotReport{
		Row:     c.Row,
		Col:     c.Col,
		Label:   FormatCoord(c),
		Outcome: outcome,
		Hit:     outcome != OutcomeMiss,
		Sunk:    outcome == OutcomeSunk,
	}

	switch outcome {
	case OutcomeSunk:
		report.Message = msgs.Sunk
	case OutcomeHit:
		report.Message = msgs.Hit
	default:
		report.Message = msgs.Miss
	}
	return report, nil
}

// shotErrorMessage maps a recoverable shot error to a user-facing message
func shotErrorMessage(err error, c Coord, msgs Messages) string {
	switch {
	case errors.Is(err, ErrAlreadyShot):
		return fmt.Sprintf("%s [%s]", msgs.AlreadyShot, FormatCoord(c))
	case errors.Is(err, ErrOutOfBounds):
		return msgs.OffBoard
	}
	return err.Error()
}
