package store

import (
	"context"
	"encoding/json"

	"github.com/DaanHessen/humanos-tui/internal/domain"
	"github.com/DaanHessen/humanos-tui/internal/logging"
)

const (
	// SlotKey names the single slot holding the history array.
	SlotKey = "humanos_simulation_history"
	// MaxRecords bounds the stored history.
	MaxRecords = 10
)

// History is the bounded, newest-first list of simulation records.
// Concurrent writers are last-writer-wins.
type History struct {
	slots Slots
	log   logging.Logger
}

func NewHistory(slots Slots, logger logging.Logger) *History {
	return &History{slots: slots, log: logging.OrNop(logger)}
}

// Load returns the stored records, newest first. It never fails: a missing
// slot, backend error or undecodable payload all yield an empty list.
func (h *History) Load(ctx context.Context) []domain.Record {
	recs, err := h.read(ctx)
	if err != nil {
		h.log.Warn("load history: %v", err)
		return []domain.Record{}
	}
	return recs
}

// read is the strict form of Load used before rewriting the slot.
func (h *History) read(ctx context.Context) ([]domain.Record, error) {
	raw, ok, err := h.slots.Get(ctx, SlotKey)
	if err != nil {
		return nil, wrap(err, "load history")
	}
	if !ok || len(raw) == 0 {
		return []domain.Record{}, nil
	}
	var recs []domain.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, wrap(err, "history slot is corrupt")
	}
	if recs == nil {
		recs = []domain.Record{}
	}
	return recs, nil
}

// Save prepends rec, truncates to MaxRecords and rewrites the slot. If the
// existing slot cannot be read or decoded, nothing is written.
func (h *History) Save(ctx context.Context, rec domain.Record) error {
	prev, err := h.read(ctx)
	if err != nil {
		return err
	}
	recs := append([]domain.Record{rec}, prev...)
	if len(recs) > MaxRecords {
		recs = recs[:MaxRecords]
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return wrap(err, "encode history")
	}
	if err := h.slots.Put(ctx, SlotKey, raw); err != nil {
		return err
	}
	h.log.Info("saved record %s (%d in history)", rec.ID, len(recs))
	return nil
}

// Clear removes the slot.
func (h *History) Clear(ctx context.Context) error {
	if err := h.slots.Delete(ctx, SlotKey); err != nil {
		return err
	}
	h.log.Info("history cleared")
	return nil
}

// Find returns the record with the given id.
func (h *History) Find(ctx context.Context, id string) (domain.Record, bool) {
	for _, r := range h.Load(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Record{}, false
}
