/*
migrate.go - Schema versions of persisted day records

SCHEMAS:
  1 (legacy):  stats carry a scalar "food" point counter
  2 (current): stats carry "meals" and "snacks" counts

  A record is legacy when its stats have "food" and no "meals".

UPGRADE:
  UpgradeRecord is pure: it returns a new DailyData and never touches
  the input. Legacy stats are discarded and re-derived from the record's
  own activities, so no activity is ever lost; only the stats cache is
  reshaped.

STARTUP:
  Migrate runs before any day is loaded. It is idempotent: when every
  record is already current it writes nothing but the version key.
*/
package day

import (
	"context"
	"encoding/json"
	"fmt"
)

type SchemaVersion int

const (
	SchemaFoodPoints  SchemaVersion = 1
	SchemaMealsSnacks SchemaVersion = 2
)

// =============================================================================
// STORED RECORD - Tagged union of schema versions
// =============================================================================

// StoredRecord is a decoded day record in one of the known schemas.
type StoredRecord interface {
	Schema() SchemaVersion
}

// LegacyStats is the schema 1 stats shape.
type LegacyStats struct {
	Energy float64
	Food   float64
	Mood   Mood
}

type LegacyRecord struct {
	Date       string
	Stats      LegacyStats
	Activities []Activity
}

func (LegacyRecord) Schema() SchemaVersion { return SchemaFoodPoints }

type CurrentRecord struct {
	Data DailyData
}

func (CurrentRecord) Schema() SchemaVersion { return SchemaMealsSnacks }

type recordEnvelope struct {
	Date       string                     `json:"date"`
	Stats      map[string]json.RawMessage `json:"stats"`
	Activities []Activity                 `json:"activities"`
}

// DecodeRecord classifies and decodes one persisted day record.
func DecodeRecord(raw []byte) (StoredRecord, error) {
	var env recordEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	_, hasFood := env.Stats["food"]
	_, hasMeals := env.Stats["meals"]
	if hasFood && !hasMeals {
		return LegacyRecord{
			Date:       env.Date,
			Activities: env.Activities,
			Stats: LegacyStats{
				Energy: decodeNumber(env.Stats["energy"]),
				Food:   decodeNumber(env.Stats["food"]),
				Mood:   decodeMood(env.Stats["mood"]),
			},
		}, nil
	}

	return CurrentRecord{Data: DailyData{
		Date:       env.Date,
		Activities: env.Activities,
		Stats: UserStats{
			Energy: decodeNumber(env.Stats["energy"]),
			Meals:  int(decodeNumber(env.Stats["meals"])),
			Snacks: int(decodeNumber(env.Stats["snacks"])),
			Mood:   decodeMood(env.Stats["mood"]),
		},
	}}, nil
}

// UpgradeRecord converts any stored record to the current shape.
// key is the date the record was stored under, used when the record
// itself carries no date.
func UpgradeRecord(key string, rec StoredRecord) DailyData {
	switch r := rec.(type) {
	case LegacyRecord:
		activities := cloneActivities(r.Activities)
		date := r.Date
		if date == "" {
			date = key
		}
		return DailyData{
			Date:       date,
			Stats:      DeriveStats(activities, r.Stats.Mood),
			Activities: activities,
		}
	case CurrentRecord:
		data := r.Data
		data.Activities = cloneActivities(r.Data.Activities)
		if data.Date == "" {
			data.Date = key
		}
		return data
	default:
		return DailyData{Date: key, Stats: DefaultStats(), Activities: []Activity{}}
	}
}

func decodeNumber(raw json.RawMessage) float64 {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return 0
	}
	return f
}

// decodeMood keeps a known mood string. Older data stored mood as a
// number; anything that is not a known string becomes neutral.
func decodeMood(raw json.RawMessage) Mood {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return MoodNeutral
	}
	if m := Mood(s); m.Valid() {
		return m
	}
	return MoodNeutral
}

// =============================================================================
// MIGRATION
// =============================================================================

type MigrationReport struct {
	Scanned  int
	Migrated int
	Skipped  int // malformed records left untouched
}

// Migrate upgrades every legacy record in the repository in place of the
// stored blob. Current records are written back byte-for-byte.
func Migrate(ctx context.Context, repo *DayRepository) (MigrationReport, error) {
	var report MigrationReport

	raw, err := repo.rawRecords(ctx)
	if err != nil {
		return report, err
	}

	changed := false
	for date, msg := range raw {
		report.Scanned++
		rec, err := DecodeRecord(msg)
		if err != nil {
			report.Skipped++
			repo.logger.Warn("migration skipped malformed record", "date", date, "error", err)
			continue
		}
		legacy, ok := rec.(LegacyRecord)
		if !ok {
			continue
		}

		upgraded := UpgradeRecord(date, legacy)
		b, err := json.Marshal(upgraded)
		if err != nil {
			return report, fmt.Errorf("encode migrated day %s: %w", date, err)
		}
		raw[date] = b
		changed = true
		report.Migrated++
		repo.logger.Info("migrated day record",
			"date", date,
			"food_points", legacy.Stats.Food,
			"meals", upgraded.Stats.Meals,
			"snacks", upgraded.Stats.Snacks)
	}

	if changed {
		if err := repo.writeRaw(ctx, raw); err != nil {
			return report, err
		}
		repo.logger.Info("day data migration complete", "migrated", report.Migrated)
	}

	version, err := repo.Version(ctx)
	if err != nil {
		return report, err
	}
	if version != AppVersion {
		if err := repo.SetVersion(ctx, AppVersion); err != nil {
			return report, err
		}
	}
	return report, nil
}
