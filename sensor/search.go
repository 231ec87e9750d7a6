package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moffa90/go-ad013/protocol"
)

// Match is the outcome of SearchFinger.
type Match struct {
	// Matched is true when the database holds a template for the finger
	Matched bool

	// TemplateID and Score are set when the sensor reported a hit
	TemplateID uint16
	Score      uint16

	// Attempts is the number of capture polls it took to see a finger
	Attempts int
}

type searchConfig struct {
	timeout             time.Duration
	pollDelay           time.Duration
	processingDelay     time.Duration
	securityOfficerOnly bool
	minScore            uint16
	onProgress          StageCallback
}

func defaultSearchConfig() searchConfig {
	return searchConfig{
		timeout:         5 * time.Second,
		pollDelay:       120 * time.Millisecond,
		processingDelay: 240 * time.Millisecond,
	}
}

// SearchOption configures one SearchFinger call.
type SearchOption func(*searchConfig)

// WithSearchTimeout sets the budget for waiting on a finger. Default 5s.
func WithSearchTimeout(timeout time.Duration) SearchOption {
	return func(c *searchConfig) {
		c.timeout = timeout
	}
}

// WithPollDelay sets the pause between two capture polls. Default 120ms.
func WithPollDelay(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d >= 0 {
			c.pollDelay = d
		}
	}
}

// WithProcessingDelay sets the time the sensor is assumed to spend on each
// capture. It is charged to the budget but never slept. Default 240ms.
func WithProcessingDelay(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		if d >= 0 {
			c.processingDelay = d
		}
	}
}

// WithSecurityOfficerOnly restricts the search to template ids 0-19.
func WithSecurityOfficerOnly(only bool) SearchOption {
	return func(c *searchConfig) {
		c.securityOfficerOnly = only
	}
}

// WithMinScore reports hits scoring below score as not matched.
func WithMinScore(score uint16) SearchOption {
	return func(c *searchConfig) {
		c.minScore = score
	}
}

// WithStageCallback sets a callback reporting workflow progress.
func WithStageCallback(cb StageCallback) SearchOption {
	return func(c *searchConfig) {
		c.onProgress = cb
	}
}

// SearchFinger waits for a finger, captures it, generates a template into
// char buffer 1 and searches the template database:
//  1. Poll GetImage until a finger is present or the budget runs out
//  2. GenChar into buffer 1
//  3. Search ids 0-99, or 0-19 for Security Officer only searches
//
// A finger without a stored template is not an error: the returned Match has
// Matched set to false.
//
// Example:
//
//	m, err := s.SearchFinger(ctx, sensor.WithSearchTimeout(10*time.Second))
//	if err == nil && m.Matched {
//	    fmt.Printf("template %d (score %d)\n", m.TemplateID, m.Score)
//	}
func (s *Sensor) SearchFinger(ctx context.Context, opts ...SearchOption) (*Match, error) {
	cfg := defaultSearchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	log := s.config.Logger.With(zap.String("run_id", uuid.NewString()))
	log.Debug("waiting for finger", zap.Duration("timeout", cfg.timeout))

	// Phase 1: wait for a finger
	remaining := cfg.timeout
	attempt := 0
	for {
		attempt++
		cfg.report(Progress{Stage: StageWaitingForFinger, Attempt: attempt, Remaining: remaining})

		status, err := s.GetImage(ctx)
		if err != nil {
			if !pollRecoverable(err) {
				return nil, fmt.Errorf("get image: %w", err)
			}
			log.Debug("unusable capture reply", zap.Int("attempt", attempt), zap.Error(err))
		} else if status == protocol.StatusOK {
			break
		} else if status != protocol.StatusNoFinger {
			log.Warn("image capture failed", zap.Stringer("status", status), zap.Int("attempt", attempt))
			return nil, &protocol.DeviceError{Operation: protocol.CmdGetImage.Name, Status: status}
		}

		if remaining <= 0 {
			log.Info("no finger before timeout", zap.Int("attempts", attempt))
			return nil, &TimeoutError{Operation: "wait for finger", Attempts: attempt}
		}
		if err := s.config.Sleep(ctx, cfg.pollDelay); err != nil {
			return nil, fmt.Errorf("cancelled: %w", err)
		}
		remaining -= cfg.pollDelay + cfg.processingDelay
	}
	cfg.report(Progress{Stage: StageCaptured, Attempt: attempt, Remaining: remaining})

	// Phase 2: generate the template
	status, err := s.GenChar(ctx, protocol.BufferSlot1)
	if err != nil {
		return nil, fmt.Errorf("generate char: %w", err)
	}
	switch status {
	case protocol.StatusOK:
	case protocol.StatusError,
		protocol.StatusFeatureFailAmorphous,
		protocol.StatusFeatureFailMinutiae,
		protocol.StatusImageIncomplete:
		log.Warn("template generation failed", zap.Stringer("status", status))
		return nil, &protocol.DeviceError{Operation: protocol.CmdGenChar.Name, Status: status}
	default:
		log.Warn("template generation returned undocumented status", zap.Stringer("status", status))
		return nil, &AmbiguousStatusError{Operation: protocol.CmdGenChar.Name, Status: status}
	}
	cfg.report(Progress{Stage: StageTemplateGenerated, Attempt: attempt, Remaining: remaining})

	// Phase 3: search the database
	end := uint16(protocol.MaxTemplateID)
	if cfg.securityOfficerOnly {
		end = protocol.MaxSecurityOfficerID
	}

	result, status, err := s.Search(ctx, protocol.BufferSlot1, 0, end)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	cfg.report(Progress{Stage: StageSearched, Attempt: attempt, Remaining: remaining})

	match := &Match{Attempts: attempt}
	switch status {
	case protocol.StatusOK:
		match.TemplateID = result.TemplateID
		match.Score = result.Score
		match.Matched = result.Score >= cfg.minScore
	case protocol.StatusFingerNotFound, protocol.StatusFingerNotMatched:
	default:
		return nil, &protocol.DeviceError{Operation: protocol.CmdSearch.Name, Status: status}
	}

	log.Info("search complete",
		zap.Bool("matched", match.Matched),
		zap.Uint16("template_id", match.TemplateID),
		zap.Uint16("score", match.Score),
		zap.Int("attempts", attempt),
	)

	return match, nil
}

// pollRecoverable reports whether a failed capture poll is charged to the
// budget like an empty one. Transport failures and cancellation end the wait.
func pollRecoverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTransport) {
		return false
	}
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, protocol.ErrChecksum) ||
		errors.Is(err, protocol.ErrFraming) ||
		errors.Is(err, protocol.ErrIncompleteFrame)
}

func (c *searchConfig) report(p Progress) {
	if c.onProgress != nil {
		c.onProgress(p)
	}
}
