package exec

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/colexpr/colexpr/internal/config"
	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/table"
	"github.com/colexpr/colexpr/internal/types"
)

// launchConfig is the lane-group geometry of one compute job.
type launchConfig struct {
	groupSize  int // lanes per group
	groupCount int // groups needed to cover all rows
	resident   int // groups executing concurrently
}

// chooseLaunch picks the widest lane group whose combined scratch fits the
// per-group budget, capped at the configured maximum, then covers the rows
// with ceil(rows/groupSize) groups. A program with no scratch runs at the
// maximum width.
func chooseLaunch(rows, peakSlots int, cfg *config.EvalConfig) launchConfig {
	groupSize := cfg.MaxGroupSize
	if peakSlots > 0 {
		laneBytes := peakSlots * types.WordSize
		if byBudget := cfg.GroupScratchBudget / laneBytes; byBudget < groupSize {
			groupSize = byBudget
		}
		if groupSize < 1 {
			groupSize = 1
		}
	}
	groupCount := (rows + groupSize - 1) / groupSize
	if groupCount < 1 {
		groupCount = 1
	}
	resident := cfg.ResidentGroups()
	if resident > groupCount {
		resident = groupCount
	}
	return launchConfig{groupSize: groupSize, groupCount: groupCount, resident: resident}
}

// jobState carries the first fatal fault of a parallel job. Lanes poll
// faulted between passes and stop early; the caller observes the fault
// only once the whole job is waited on.
type jobState struct {
	mu      sync.Mutex
	err     error
	faulted atomic.Bool
}

func (j *jobState) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err == nil {
		j.err = err
		j.faulted.Store(true)
	}
}

func (j *jobState) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// runJob launches the compute job and blocks until every row in
// [0, rows) has been evaluated exactly once or the job has faulted. Each
// resident worker owns one lane group's scratch and strides over group
// indices, so coverage is complete even when resident groups are fewer
// than the total.
func (ec *Context) runJob(plan *devicePlan, view *tableView, out *table.Column, rows int) error {
	lc := chooseLaunch(rows, plan.peakSlots, ec.cfg)
	jobID := uuid.New().String()
	ec.logger.Debug("launching compute job",
		"job_id", jobID,
		"rows", rows,
		"group_size", lc.groupSize,
		"group_count", lc.groupCount,
		"resident_groups", lc.resident,
		"peak_slots", plan.peakSlots,
	)

	job := &jobState{}
	var wg sync.WaitGroup
	for g := 0; g < lc.resident; g++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					job.fail(errors.Newf(errors.JobPanic, "compute job panicked: %v", p))
				}
			}()
			groupScratch := make([]types.Word, lc.groupSize*plan.peakSlots)
			eval := rowEvaluator{plan: plan, tbl: view, out: out}
			for grp := worker; grp < lc.groupCount; grp += lc.resident {
				if job.faulted.Load() {
					return
				}
				base := grp * lc.groupSize
				for lane := 0; lane < lc.groupSize; lane++ {
					row := base + lane
					if row >= rows {
						break
					}
					if plan.peakSlots > 0 {
						eval.scratch = groupScratch[lane*plan.peakSlots : (lane+1)*plan.peakSlots]
					}
					if err := eval.executeProgram(row); err != nil {
						job.fail(err)
						return
					}
				}
			}
		}(g)
	}
	wg.Wait()

	if err := job.Err(); err != nil {
		ec.logger.Error("compute job aborted", "job_id", jobID, "error", err)
		return err
	}
	return nil
}
