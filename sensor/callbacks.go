package sensor

import (
	"context"
	"time"
)

// Stage identifies a step of the capture and match workflow.
type Stage string

// Workflow stages, in order.
const (
	StageWaitingForFinger  Stage = "waiting_for_finger"
	StageCaptured          Stage = "captured"
	StageTemplateGenerated Stage = "template_generated"
	StageSearched          Stage = "searched"
)

// Progress is passed to a StageCallback whenever the workflow moves on or
// polls again for a finger.
type Progress struct {
	// Stage is the workflow step just entered
	Stage Stage

	// Attempt counts capture polls, starting at 1
	Attempt int

	// Remaining is the time budget left
	Remaining time.Duration
}

// StageCallback is called during SearchFinger to report progress.
// Implementations should return quickly to avoid stalling the polling loop.
//
// Example:
//
//	m, err := s.SearchFinger(ctx, sensor.WithStageCallback(func(p sensor.Progress) {
//	    fmt.Printf("[%s] attempt %d, %s left\n", p.Stage, p.Attempt, p.Remaining)
//	}))
type StageCallback func(Progress)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the default SleepFunc.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
