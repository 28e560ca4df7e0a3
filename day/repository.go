/*
repository.go - Per-day records on top of an opaque key-value store

PURPOSE:
  The persistence collaborator is a plain get/set/remove byte store.
  DayRepository keeps every ledger day in one JSON blob under a fixed
  key (a map of date -> DailyData) and the schema version under a second
  key.

READ-MODIFY-WRITE:
  Save loads the whole map, replaces one date and writes the map back.
  This assumes a single writer. Callers running several ledgers against
  the same store must serialize access themselves.

MALFORMED DATA:
  An unparseable blob, or an unparseable record inside it, is logged and
  treated as absent. Loading never fails because of bad persisted data.

IMPLEMENTATIONS OF KV:
  - day/store/memory.go:    In-memory, for tests
  - store/sqlite/sqlite.go: SQLite table
  - store/badger/badger.go: BadgerDB
*/
package day

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
)

// Fixed keys in the key-value store.
const (
	DailyDataKey = "window_daily_data"
	VersionKey   = "window_app_version"

	// AppVersion is written under VersionKey after a successful migration.
	// It is the app release string, not a SchemaVersion.
	AppVersion = "1.0.0"
)

// KV is the opaque byte store the ledger persists through.
type KV interface {
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// DayRepository reads and writes DailyData records.
type DayRepository struct {
	kv     KV
	logger *slog.Logger
}

func NewDayRepository(kv KV, logger *slog.Logger) *DayRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &DayRepository{kv: kv, logger: logger}
}

// rawRecords loads the blob as undecoded per-date records.
// A missing or malformed blob yields nil.
func (r *DayRepository) rawRecords(ctx context.Context) (map[string]json.RawMessage, error) {
	blob, err := r.kv.Get(ctx, DailyDataKey)
	if err != nil {
		return nil, &StoreError{Op: "get", Key: DailyDataKey, Err: err}
	}
	if blob == nil {
		return nil, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		r.logger.Warn("ignoring malformed daily data",
			"key", DailyDataKey, "error", fmt.Errorf("%w: %v", ErrCorruptRecord, err))
		return nil, nil
	}
	return raw, nil
}

func (r *DayRepository) writeRaw(ctx context.Context, raw map[string]json.RawMessage) error {
	blob, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode daily data: %w", err)
	}
	if err := r.kv.Set(ctx, DailyDataKey, blob); err != nil {
		return &StoreError{Op: "set", Key: DailyDataKey, Err: err}
	}
	return nil
}

// All returns every decodable day record. Records still in an older
// schema are upgraded on the fly.
func (r *DayRepository) All(ctx context.Context) (map[string]DailyData, error) {
	raw, err := r.rawRecords(ctx)
	if err != nil {
		return nil, err
	}

	days := make(map[string]DailyData, len(raw))
	for date, msg := range raw {
		rec, err := DecodeRecord(msg)
		if err != nil {
			r.logger.Warn("skipping malformed day record", "date", date, "error", err)
			continue
		}
		days[date] = UpgradeRecord(date, rec)
	}
	return days, nil
}

// Get returns the record for date, if one is stored.
func (r *DayRepository) Get(ctx context.Context, date string) (DailyData, bool, error) {
	raw, err := r.rawRecords(ctx)
	if err != nil {
		return DailyData{}, false, err
	}
	msg, ok := raw[date]
	if !ok {
		return DailyData{}, false, nil
	}
	rec, err := DecodeRecord(msg)
	if err != nil {
		r.logger.Warn("treating malformed day record as absent", "date", date, "error", err)
		return DailyData{}, false, nil
	}
	return UpgradeRecord(date, rec), true, nil
}

// Save writes one day, leaving all other days untouched.
func (r *DayRepository) Save(ctx context.Context, data DailyData) error {
	raw, err := r.rawRecords(ctx)
	if err != nil {
		return err
	}
	if raw == nil {
		raw = make(map[string]json.RawMessage)
	}
	if data.Activities == nil {
		data.Activities = []Activity{}
	}
	msg, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode day %s: %w", data.Date, err)
	}
	raw[data.Date] = msg
	return r.writeRaw(ctx, raw)
}

// Delete removes one day.
func (r *DayRepository) Delete(ctx context.Context, date string) error {
	raw, err := r.rawRecords(ctx)
	if err != nil {
		return err
	}
	if _, ok := raw[date]; !ok {
		return nil
	}
	delete(raw, date)
	return r.writeRaw(ctx, raw)
}

// Dates returns all stored dates, oldest first.
func (r *DayRepository) Dates(ctx context.Context) ([]string, error) {
	raw, err := r.rawRecords(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(raw))
	for date := range raw {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

// Clear removes all ledger data, including the schema version.
func (r *DayRepository) Clear(ctx context.Context) error {
	for _, key := range []string{DailyDataKey, VersionKey} {
		if err := r.kv.Remove(ctx, key); err != nil {
			return &StoreError{Op: "remove", Key: key, Err: err}
		}
	}
	return nil
}

// Version returns the stored schema version, or "" when none is stored.
func (r *DayRepository) Version(ctx context.Context) (string, error) {
	b, err := r.kv.Get(ctx, VersionKey)
	if err != nil {
		return "", &StoreError{Op: "get", Key: VersionKey, Err: err}
	}
	if b == nil {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		r.logger.Warn("ignoring malformed schema version", "error", err)
		return "", nil
	}
	return v, nil
}

func (r *DayRepository) SetVersion(ctx context.Context, version string) error {
	b, err := json.Marshal(version)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, VersionKey, b); err != nil {
		return &StoreError{Op: "set", Key: VersionKey, Err: err}
	}
	return nil
}
