package wizard

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Stage is a step of the setup flow.
type Stage string

// Stages in the order a completed run visits them.
const (
	StageHome        Stage = "home"
	StageSelecting   Stage = "selecting"
	StageConfiguring Stage = "configuring"
	StagePersisting  Stage = "persisting"
	StageDone        Stage = "done"
	StageCancelled   Stage = "cancelled"
)

// Events driving the stage machine.
const (
	EventHomeResolved = "HOME_RESOLVED"
	EventSelected     = "SELECTED"
	EventConfigured   = "CONFIGURED"
	EventPersisted    = "PERSISTED"
	EventCancel       = "CANCEL"
	EventReset        = "RESET"
)

// journey is the statekit context. It only records the stages entered.
type journey struct {
	Visited []Stage
}

// stages tracks one run through the setup flow. Nothing is persisted
// before StagePersisting is entered.
type stages struct {
	interp  *statekit.Interpreter[journey]
	visited []Stage
}

func newStages() (*stages, error) {
	s := &stages{}
	enter := func(stage Stage) func(*journey, statekit.Event) {
		return func(_ *journey, _ statekit.Event) {
			s.visited = append(s.visited, stage)
		}
	}

	machine, err := statekit.NewMachine[journey]("clawquant-setup").
		WithInitial(statekit.StateID(StageHome)).
		WithContext(journey{}).
		WithAction("enterHome", enter(StageHome)).
		WithAction("enterSelecting", enter(StageSelecting)).
		WithAction("enterConfiguring", enter(StageConfiguring)).
		WithAction("enterPersisting", enter(StagePersisting)).
		WithAction("enterDone", enter(StageDone)).
		WithAction("enterCancelled", enter(StageCancelled)).
		State(statekit.StateID(StageHome)).
		OnEntry("enterHome").
		On(EventHomeResolved).Target(statekit.StateID(StageSelecting)).
		On(EventCancel).Target(statekit.StateID(StageCancelled)).Done().
		State(statekit.StateID(StageSelecting)).
		OnEntry("enterSelecting").
		On(EventSelected).Target(statekit.StateID(StageConfiguring)).
		On(EventCancel).Target(statekit.StateID(StageCancelled)).Done().
		State(statekit.StateID(StageConfiguring)).
		OnEntry("enterConfiguring").
		On(EventConfigured).Target(statekit.StateID(StagePersisting)).
		On(EventCancel).Target(statekit.StateID(StageCancelled)).Done().
		// Persisting has no cancel edge: prompts are over.
		State(statekit.StateID(StagePersisting)).
		OnEntry("enterPersisting").
		On(EventPersisted).Target(statekit.StateID(StageDone)).Done().
		State(statekit.StateID(StageDone)).
		OnEntry("enterDone").
		On(EventReset).Target(statekit.StateID(StageHome)).Done().
		State(statekit.StateID(StageCancelled)).
		OnEntry("enterCancelled").
		On(EventReset).Target(statekit.StateID(StageHome)).Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build setup state machine: %w", err)
	}

	s.interp = statekit.NewInterpreter(machine)
	s.interp.Start()
	return s, nil
}

func (s *stages) send(event string) {
	s.interp.Send(statekit.Event{Type: statekit.EventType(event)})
}

func (s *stages) current() Stage {
	return Stage(s.interp.State().Value)
}

func (s *stages) stop() []Stage {
	s.interp.Stop()
	return append([]Stage(nil), s.visited...)
}
