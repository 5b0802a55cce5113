package scores

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
)

// MaxEntries is the size of the persisted table.
const MaxEntries = 10

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"name"`
	Score uint16 `json:"score"`
}

// Board is the durable top-10 score table. It is owned by the session loop
// and not safe for concurrent use.
type Board struct {
	path    string
	entries []Entry
}

// Load reads the table from path. A missing, unreadable, or corrupt file is
// an empty table, never an error.
func Load(path string) *Board {
	b := &Board{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("score table unreadable, starting empty")
		}
		return b
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("score table corrupt, starting empty")
		return b
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	b.entries = entries
	return b
}

// CheckRank reports the 0-based rank a score would take, or false if it
// would not make the table. A table with open slots accepts any score and
// reports the next open slot; a full table requires strictly beating 10th
// place and reports the sorted position.
func (b *Board) CheckRank(score uint16) (int, bool) {
	if len(b.entries) < MaxEntries {
		return len(b.entries), true
	}
	if score > b.entries[MaxEntries-1].Score {
		return b.rankFor(score), true
	}
	return 0, false
}

// rankFor is the stable insertion position: existing equal scores keep the
// higher rank.
func (b *Board) rankFor(score uint16) int {
	for i, e := range b.entries {
		if score > e.Score {
			return i
		}
	}
	return len(b.entries)
}

// Insert adds an entry, keeps the table sorted descending with
// first-submitted-wins ties, truncates to 10, and persists. Returns the
// 0-based rank of the new entry, or false if it fell off the table.
func (b *Board) Insert(name string, score uint16) (int, bool) {
	rank := b.rankFor(score)

	b.entries = append(b.entries, Entry{})
	copy(b.entries[rank+1:], b.entries[rank:])
	b.entries[rank] = Entry{Name: name, Score: score}

	if len(b.entries) > MaxEntries {
		b.entries = b.entries[:MaxEntries]
	}

	b.save()

	if rank >= MaxEntries {
		return 0, false
	}
	return rank, true
}

// Entries returns the current table, highest score first.
func (b *Board) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// save overwrites the whole table. Failure leaves the in-memory table
// authoritative.
func (b *Board) save() {
	data, err := json.MarshalIndent(b.entries, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("marshal score table failed")
		return
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		log.Error().Err(err).Str("path", b.path).Msg("persist score table failed, continuing in memory")
	}
}
