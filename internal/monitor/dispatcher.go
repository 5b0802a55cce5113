package monitor

import (
	"github.com/rs/zerolog/log"

	"github.com/temanyl/keybridge/internal/frame"
	"github.com/temanyl/keybridge/internal/scores"
)

// link is the slice of the transport session the dispatcher needs.
type link interface {
	Send(f frame.Frame) error
	Recv() ([]byte, bool)
}

// dispatcher drains inbound frames and drives the high-score exchange.
type dispatcher struct {
	board *scores.Board
}

// poll makes one bounded read attempt and handles whatever arrived. Unknown
// or malformed frames are dropped silently; a returned error means a
// response send failed and the tick should be abandoned.
func (d *dispatcher) poll(l link) error {
	data, ok := l.Recv()
	if !ok {
		return nil
	}

	msg, ok := frame.Decode(data)
	if !ok {
		return nil
	}

	switch m := msg.(type) {
	case frame.ScoreSubmit:
		rank, ok := d.board.CheckRank(m.Score)
		if ok {
			log.Info().Uint16("score", m.Score).Int("rank", rank).Msg("score qualifies, requesting name")
			return l.Send(frame.EncodeEnterName(rank))
		}
		log.Info().Uint16("score", m.Score).Msg("score below the table")
		return l.Send(d.showScores())

	case frame.NameSubmit:
		rank, ok := d.board.Insert(m.Name, m.Score)
		if ok {
			log.Info().Str("name", m.Name).Uint16("score", m.Score).Int("rank", rank).Msg("score recorded")
		} else {
			log.Info().Str("name", m.Name).Uint16("score", m.Score).Msg("score fell off the table")
		}
		return l.Send(d.showScores())
	}

	return nil
}

func (d *dispatcher) showScores() frame.Frame {
	entries := d.board.Entries()
	wire := make([]frame.ScoreEntry, 0, len(entries))
	for _, e := range entries {
		wire = append(wire, frame.ScoreEntry{Name: e.Name, Score: e.Score})
	}
	return frame.EncodeShowScores(wire)
}
