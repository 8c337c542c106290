package auditor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/clock"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/goodnatureofminers/blockmirror/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	difficultyTolerance = 0.001
	summaryLimit        = 5

	defaultWindowSize  uint64 = 100
	defaultInterval           = 10 * time.Minute
	defaultConcurrency        = 4
)

// Config holds the tunables of an Auditor.
type Config struct {
	StartHeight uint64
	WindowSize  uint64
	Interval    time.Duration
	// Concurrency bounds parallel header fetches from the node.
	Concurrency int
}

// Auditor compares stored block headers with the node. It never writes to the mirror.
type Auditor struct {
	logger      *zap.Logger
	store       Store
	node        Node
	metrics     Metrics
	archive     ReportArchive
	publisher   ReportPublisher
	startHeight uint64
	windowSize  uint64
	interval    time.Duration
	concurrency int
	now         func() time.Time
	wait        func(ctx context.Context, d time.Duration) error

	mu     sync.RWMutex
	latest *model.ConsistencyReport
}

// NewAuditor wires an auditor. archive and publisher are optional.
func NewAuditor(
	store Store,
	node Node,
	metrics Metrics,
	archive ReportArchive,
	publisher ReportPublisher,
	cfg Config,
	logger *zap.Logger,
) (*Auditor, error) {
	if metrics == nil {
		return nil, errors.New("auditor metrics is required")
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = defaultWindowSize
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Auditor{
		logger:      logger,
		store:       store,
		node:        node,
		metrics:     metrics,
		archive:     archive,
		publisher:   publisher,
		startHeight: cfg.StartHeight,
		windowSize:  cfg.WindowSize,
		interval:    cfg.Interval,
		concurrency: cfg.Concurrency,
		now:         time.Now,
		wait:        clock.SleepWithContext,
	}, nil
}

type remoteHeader struct {
	header model.BlockHeader
	err    error
}

// Audit compares the last windowSize stored heights with the node. Heights the node
// could not serve are excluded from the checked set and listed as unreachable.
func (a *Auditor) Audit(ctx context.Context, windowSize uint64) (report *model.ConsistencyReport, err error) {
	started := time.Now()
	defer func() {
		a.metrics.ObserveRun(err, started)
	}()

	report = &model.ConsistencyReport{
		CheckTime:          a.now().UTC(),
		Inconsistencies:    []model.Discrepancy{},
		UnreachableHeights: []uint64{},
		Status:             model.StatusHealthy,
	}

	tip, ok, err := a.store.MaxBlockHeight(ctx)
	if err != nil {
		return nil, fmt.Errorf("read local tip: %w", err)
	}
	from, to, ok := a.window(tip, ok, windowSize)
	if !ok {
		a.observe(report)
		return report, nil
	}
	report.BlocksChecked.StartHeight = from
	report.BlocksChecked.EndHeight = to

	stored, err := a.store.BlockHeaders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("read stored headers %d..%d: %w", from, to, err)
	}
	local := make(map[uint64]model.BlockHeader, len(stored))
	for _, header := range stored {
		local[header.Height] = header
	}

	heights := make([]uint64, 0, to-from+1)
	for h := from; h <= to; h++ {
		heights = append(heights, h)
	}
	fetched, err := workerpool.Map(ctx, a.concurrency, heights, func(ctx context.Context, h uint64) (remoteHeader, error) {
		header, fetchErr := a.node.BlockHeader(ctx, h)
		return remoteHeader{header: header, err: fetchErr}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch remote headers: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	remote := make(map[uint64]model.BlockHeader, len(fetched))
	for i, res := range fetched {
		if res.err != nil {
			a.logger.Debug("remote header unavailable", zap.Uint64("height", heights[i]), zap.Error(res.err))
			report.UnreachableHeights = append(report.UnreachableHeights, heights[i])
			continue
		}
		remote[heights[i]] = res.header
	}

	var inconsistentHeights uint64
	for _, h := range heights {
		want, reachable := remote[h]
		if !reachable {
			continue
		}
		report.BlocksChecked.Total++

		found := compare(h, want, local, remote, from)
		if len(found) == 0 {
			continue
		}
		inconsistentHeights++
		report.Inconsistencies = append(report.Inconsistencies, found...)
		if found[0].Type == model.MissingBlock {
			report.Consistency.MissingBlocks++
		}
	}

	report.Consistency.TotalInconsistencies = len(report.Inconsistencies)
	report.Consistency.Percentage = percentage(report.BlocksChecked.Total, inconsistentHeights)
	if len(report.Inconsistencies) > 0 {
		report.Status = model.StatusInconsistent
	}
	a.observe(report)
	return report, nil
}

// window returns the audited range [tip-windowSize+1, tip] clipped at the start height.
func (a *Auditor) window(tip uint64, hasTip bool, windowSize uint64) (from, to uint64, ok bool) {
	if !hasTip || windowSize == 0 || tip < a.startHeight {
		return 0, 0, false
	}
	from = a.startHeight
	if tip-a.startHeight >= windowSize {
		from = tip - windowSize + 1
	}
	return from, tip, true
}

func compare(h uint64, want model.BlockHeader, local, remote map[uint64]model.BlockHeader, from uint64) []model.Discrepancy {
	got, stored := local[h]
	if !stored {
		return []model.Discrepancy{{
			Height:      h,
			Type:        model.MissingBlock,
			Expected:    want.Hash,
			Description: "Block is missing from the mirror",
		}}
	}

	var found []model.Discrepancy
	if got.Hash != want.Hash {
		found = append(found, model.Discrepancy{
			Height:      h,
			Type:        model.HashMismatch,
			Expected:    want.Hash,
			Actual:      got.Hash,
			Description: "Block hash mismatch between mirror and node",
		})
	}
	if h > from {
		_, storedPrev := local[h-1]
		_, remotePrev := remote[h-1]
		if storedPrev && remotePrev && got.PreviousBlockHash != want.PreviousBlockHash {
			found = append(found, model.Discrepancy{
				Height:      h,
				Type:        model.PrevHashMismatch,
				Expected:    want.PreviousBlockHash,
				Actual:      got.PreviousBlockHash,
				Description: "Previous block hash mismatch",
			})
		}
	}
	if got.Chainwork != want.Chainwork {
		found = append(found, model.Discrepancy{
			Height:      h,
			Type:        model.ChainworkMismatch,
			Expected:    want.Chainwork,
			Actual:      got.Chainwork,
			Description: "Chainwork mismatch between mirror and node",
		})
	}
	if math.Abs(got.Difficulty-want.Difficulty) > difficultyTolerance {
		found = append(found, model.Discrepancy{
			Height:      h,
			Type:        model.DifficultyMismatch,
			Expected:    strconv.FormatFloat(want.Difficulty, 'f', -1, 64),
			Actual:      strconv.FormatFloat(got.Difficulty, 'f', -1, 64),
			Description: "Difficulty mismatch between mirror and node",
		})
	}
	return found
}

// percentage is the share of checked heights without discrepancies, rounded to two decimals.
func percentage(checked, inconsistent uint64) float64 {
	if checked == 0 {
		return 0
	}
	value := float64(checked-inconsistent) / float64(checked) * 100
	return math.Round(value*100) / 100
}

func (a *Auditor) observe(report *model.ConsistencyReport) {
	types := make([]string, 0, len(model.DiscrepancyTypes))
	for _, kind := range model.DiscrepancyTypes {
		types = append(types, string(kind))
	}
	checked := int(report.BlocksChecked.Total)
	a.metrics.ObserveReport(report.Consistency.Percentage, checked, report.CountByType(), types)
}

// Latest returns the report of the most recent successful audit run.
func (a *Auditor) Latest() (model.ConsistencyReport, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return model.ConsistencyReport{}, false
	}
	return *a.latest, true
}

// Run audits every interval until ctx is cancelled. Failed audits are logged and
// retried on the next tick.
func (a *Auditor) Run(ctx context.Context) error {
	for {
		report, err := a.Audit(ctx, a.windowSize)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			a.logger.Warn("audit failed", zap.Error(err))
		default:
			a.mu.Lock()
			a.latest = report
			a.mu.Unlock()
			a.summarize(*report)
			a.export(ctx, *report)
		}

		if err := a.wait(ctx, a.interval); err != nil {
			return err
		}
	}
}

func (a *Auditor) summarize(report model.ConsistencyReport) {
	fields := []zap.Field{
		zap.String("status", string(report.Status)),
		zap.Uint64("start_height", report.BlocksChecked.StartHeight),
		zap.Uint64("end_height", report.BlocksChecked.EndHeight),
		zap.Uint64("checked", report.BlocksChecked.Total),
		zap.Float64("percentage", report.Consistency.Percentage),
		zap.Int("inconsistencies", report.Consistency.TotalInconsistencies),
		zap.Int("missing_blocks", report.Consistency.MissingBlocks),
		zap.Int("unreachable", len(report.UnreachableHeights)),
	}
	if report.Status == model.StatusHealthy {
		a.logger.Info("audit finished", fields...)
		return
	}
	a.logger.Warn("audit found inconsistencies", fields...)
	for i, d := range report.Inconsistencies {
		if i == summaryLimit {
			break
		}
		a.logger.Warn("inconsistency",
			zap.Uint64("height", d.Height),
			zap.String("type", string(d.Type)),
			zap.String("expected", d.Expected),
			zap.String("actual", d.Actual),
			zap.String("description", d.Description),
		)
	}
}

func (a *Auditor) export(ctx context.Context, report model.ConsistencyReport) {
	if a.archive != nil {
		if err := a.archive.ArchiveReport(ctx, report); err != nil {
			a.logger.Warn("archive audit report failed", zap.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.PublishAudit(ctx, report); err != nil {
			a.logger.Warn("publish audit report failed", zap.Error(err))
		}
	}
}
