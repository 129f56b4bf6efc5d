package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var profileEventColumns = []string{
	"id", "sequence", "timestamp", "run_id", "profile_name", "slug", "source",
	"material_name", "requested_temp", "nozzle_temp", "bed_temp", "fan_speed",
	"fan_speed_min", "fan_speed_max", "flow_ratio", "pressure_advance",
	"output_path",
}

func (r *eventRepo) AppendProfile(ctx context.Context, data ProfileEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(profileEventsTable).
		Columns(profileEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.RunID,
			data.ProfileName,
			data.Slug,
			data.Source,
			data.MaterialName,
			data.RequestedTemp,
			data.NozzleTemp,
			data.BedTemp,
			data.FanSpeed,
			data.FanSpeedMin,
			data.FanSpeedMax,
			data.FlowRatio,
			data.PressureAdvance,
			data.OutputPath,
		).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save profile event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryProfiles(ctx context.Context, opts QueryOpts) ([]ProfileEvent, error) {
	b := builder()
	sel := applyOpts(b.Select(profileEventColumns...).From(b.Table(profileEventsTable)), opts)
	return r.queryProfiles(ctx, sel)
}

func (r *eventRepo) ProfilesByRun(ctx context.Context, runIDs []string) (map[string]ProfileEvent, error) {
	byRun := make(map[string]ProfileEvent, len(runIDs))
	if len(runIDs) == 0 {
		return byRun, nil
	}

	ids := make([]any, len(runIDs))
	for i, id := range runIDs {
		ids[i] = id
	}
	b := builder()
	sel := b.Select(profileEventColumns...).
		From(b.Table(profileEventsTable)).
		Where(entsql.In("run_id", ids...))

	events, err := r.queryProfiles(ctx, sel)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		byRun[e.RunID] = e
	}
	return byRun, nil
}

func (r *eventRepo) queryProfiles(ctx context.Context, sel *entsql.Selector) ([]ProfileEvent, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profile events: %w", err)
	}
	defer rows.Close()

	var events []ProfileEvent
	for rows.Next() {
		var e ProfileEvent
		err := rows.Scan(
			&e.ID,
			&e.Sequence,
			&e.Timestamp,
			&e.RunID,
			&e.ProfileName,
			&e.Slug,
			&e.Source,
			&e.MaterialName,
			&e.RequestedTemp,
			&e.NozzleTemp,
			&e.BedTemp,
			&e.FanSpeed,
			&e.FanSpeedMin,
			&e.FanSpeedMax,
			&e.FlowRatio,
			&e.PressureAdvance,
			&e.OutputPath,
		)
		if err != nil {
			return nil, fmt.Errorf("scan profile event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
