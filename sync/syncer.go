package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// UnitSource reads a range of rows, header included. SheetsFetcher is the production source.
type UnitSource interface {
	FetchRows(ctx context.Context, rng SheetRange) ([]Row, error)
}

// UnitSink accepts one unit payload at a time. FieldWorkUpdater is the production sink.
type UnitSink interface {
	Upsert(ctx context.Context, payload UnitPayload) error
}

// Syncer forwards recently changed units that are missing downstream.
// A Syncer holds no per run state so Run may be called concurrently.
type Syncer struct {
	*SyncContext
	Source UnitSource
	Sink   UnitSink
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewSyncer(sc *SyncContext, source UnitSource, sink UnitSink) *Syncer {
	return &Syncer{
		SyncContext: sc,
		Source:      source,
		Sink:        sink,
		Now:         time.Now,
	}
}

// syncRun tracks the progress of a single Run for logging.
type syncRun struct {
	state     State
	now       time.Time
	unitID    string
	forwarded int
	logger    zerolog.Logger
}

func (r *syncRun) enter(state State) {
	r.state = state
	r.logger.Debug().Stringer("state", state).Msg("Sync state")
}

// Run performs one reconciliation pass. It never returns a partial result: any failure
// stops the pass and is reported as a StateFailed result, leaving already forwarded
// units in place.
func (s *Syncer) Run(ctx context.Context) (result Result) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	run := &syncRun{
		state:  StateStart,
		now:    now(),
		logger: s.Logger,
	}
	s.Logger.Info().Msgf("Started at %s", run.now.Format(time.DateTime))

	defer func() {
		if r := recover(); r != nil {
			result = s.fail(run, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err := s.sync(ctx, run)
	if err != nil {
		return s.fail(run, err)
	}
	s.Logger.Info().
		Stringer("state", result.State).
		Msgf("Completed at %s", now().Format(time.DateTime))
	return result
}

func (s *Syncer) fail(run *syncRun, err error) Result {
	event := s.Logger.Error().
		Err(err).
		Stringer("state", run.state).
		Int("forwarded", run.forwarded)
	if run.unitID != "" {
		event = event.Str("unit_id", run.unitID)
	}
	event.Msg("Sync error")
	run.state = StateFailed
	return failedResult(err)
}

func (s *Syncer) sync(ctx context.Context, run *syncRun) (Result, error) {
	loc, err := s.Config.Sync.Location()
	if err != nil {
		return Result{}, err
	}

	run.enter(StateLoadingPrimary)
	unitRows, err := s.Source.FetchRows(ctx, s.Config.Sheets.Units)
	if err != nil {
		return Result{}, err
	}
	if len(unitRows) < 2 {
		run.enter(StateNoData)
		return emptySourceResult(s.Config.Sheets.Units.Sheet), nil
	}

	run.enter(StateDetecting)
	layout := s.Config.Columns
	if layout.ResolveFromHeader {
		layout = layout.MatchHeader(unitRows[0])
	}
	records := ParseUnitRows(unitRows, layout, loc)
	candidates := RecentUnitIDs(records, run.now, s.Config.Sync.Window())
	if len(candidates) == 0 {
		run.enter(StateNoCandidates)
		return noCandidatesResult(), nil
	}

	run.enter(StateLoadingSecondary)
	syncedRows, err := s.Source.FetchRows(ctx, s.Config.Sheets.Synced)
	if err != nil {
		return Result{}, err
	}

	run.enter(StateResolving)
	presence := ResolvePresence(SyncedUnitIDs(syncedRows), candidates)
	records = recordsFor(records, candidates)
	lookup := make(map[string]UnitRecord, len(records))
	for _, r := range records {
		lookup[r.UnitID] = r
	}

	run.enter(StateForwarding)
	for _, id := range presence.Missing() {
		run.unitID = id
		record, found := lookup[id]
		if !found {
			return Result{}, &ForwardError{UnitID: id, Err: errors.New("unit row not found")}
		}
		if err := s.Sink.Upsert(ctx, BuildUnitPayload(record)); err != nil {
			return Result{}, &ForwardError{UnitID: id, Err: err}
		}
		run.forwarded++
	}
	run.unitID = ""

	run.enter(StateDone)
	return doneResult(run.forwarded, len(candidates)), nil
}

// recordsFor keeps the records whose id is in ids. Later rows win on duplicate ids.
func recordsFor(records []UnitRecord, ids UnitIDSet) []UnitRecord {
	var result []UnitRecord
	for _, r := range records {
		if ids.Contains(r.UnitID) {
			result = append(result, r)
		}
	}
	return result
}
