package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	initialized atomic.Int32
	runs        atomic.Int32
	shutdowns   atomic.Int32
	runErr      error
}

func (r *countingRunner) Initialize(ctx context.Context) error {
	r.initialized.Add(1)
	return nil
}

func (r *countingRunner) Run(ctx context.Context) (*Result, error) {
	r.runs.Add(1)
	return &Result{}, r.runErr
}

func (r *countingRunner) Shutdown(ctx context.Context) error {
	r.shutdowns.Add(1)
	return nil
}

func TestBotRunsOnceWithoutSchedule(t *testing.T) {
	runner := &countingRunner{}
	bot := NewBot(BotConfig{Name: "test", Pipeline: runner})

	if err := bot.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if runner.initialized.Load() != 1 || runner.runs.Load() != 1 {
		t.Fatalf("initialized=%d runs=%d, want 1/1", runner.initialized.Load(), runner.runs.Load())
	}
	// a finished bot can be started again
	if err := bot.Start(context.Background()); err != nil {
		t.Fatalf("second Start error: %v", err)
	}
	if runner.runs.Load() != 2 {
		t.Fatalf("runs=%d after restart, want 2", runner.runs.Load())
	}
}

func TestBotReturnsRunError(t *testing.T) {
	boom := errors.New("sink failed")
	bot := NewBot(BotConfig{Name: "test", Pipeline: &countingRunner{runErr: boom}})

	if err := bot.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected run error, got %v", err)
	}
}

func TestBotScheduledModeStopsOnCancel(t *testing.T) {
	runner := &countingRunner{}
	bot := NewBot(BotConfig{Name: "test", Pipeline: runner, Schedule: "@every 1h"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Start(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("bot did not stop after cancel")
	}

	if runner.runs.Load() != 0 {
		t.Fatalf("no tick should have fired, got %d runs", runner.runs.Load())
	}
}

func TestBotStopShutsDownPipeline(t *testing.T) {
	runner := &countingRunner{}
	bot := NewBot(BotConfig{
		Name:     "test",
		Pipeline: runner,
	})

	if err := bot.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if runner.shutdowns.Load() != 1 {
		t.Fatalf("shutdowns=%d, want 1", runner.shutdowns.Load())
	}
}
