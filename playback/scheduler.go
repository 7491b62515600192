package playback

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	Mc "github.com/maroda/ostinato/compose"
	Mo "github.com/maroda/ostinato/obvy"
	Mp "github.com/maroda/ostinato/plugin"
	Mt "github.com/maroda/ostinato/types"
)

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (st State) String() string {
	switch st {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Observer is told which step is sounding, in time with the voices.
type Observer func(timelineIndex int, patternID string, step int)

// Position is the last step played and the next one in line.
type Position struct {
	State   string  `json:"state"`
	Index   int     `json:"index"`
	Steps   int     `json:"steps"`
	Current StepRef `json:"current"`
	Tempo   float64 `json:"tempo"`
}

type draw struct {
	ref StepRef
	at  time.Time
	fn  Observer
}

// Scheduler steps through a loaded composition one quarter note at a time
// and triggers voices for every track of the active pattern.
// It only reads the snapshot handed to LoadTrack.
type Scheduler struct {
	MU        sync.Mutex
	Voice     Mp.VoiceAdapter
	Stats     *Mo.StatsInternal
	Lookahead time.Duration // events are stamped this far ahead of the tick
	StopChan  chan struct{}
	WG        sync.WaitGroup

	// transport is held for a whole Play, Pause, Resume or Stop,
	// so a new clock never starts while halt waits for the old one.
	transport sync.Mutex

	doc         *Mt.Composition
	steps       StepMap
	state       State
	pos         int
	current     StepRef
	tempo       Tempo
	lastPattern string
	observer    Observer
	draws       chan draw
	disposed    bool
}

func NewScheduler(voice Mp.VoiceAdapter, stats *Mo.StatsInternal, lookahead time.Duration) *Scheduler {
	s := &Scheduler{
		Voice:     voice,
		Stats:     stats,
		Lookahead: lookahead,
		doc:       Mt.NewComposition(),
		tempo:     NewTempo(Mt.DefaultTempo),
		draws:     make(chan draw, 64),
	}
	go s.drawLoop()
	return s
}

// SetObserver registers the single step callback, nil removes it.
func (s *Scheduler) SetObserver(fn Observer) {
	s.MU.Lock()
	defer s.MU.Unlock()
	s.observer = fn
}

// LoadTrack replaces the document being played.
// A stopped scheduler starts again from the first step.
func (s *Scheduler) LoadTrack(doc *Mt.Composition) {
	doc = doc.Clone()
	doc.Normalize()
	if doc.Tempo <= 0 {
		slog.Warn("Composition has no usable tempo, using default",
			slog.Float64("tempo", doc.Tempo),
			slog.Float64("default", Mt.DefaultTempo))
		doc.Tempo = Mt.DefaultTempo
	}
	steps := BuildStepMap(doc)

	s.MU.Lock()
	defer s.MU.Unlock()
	s.doc = doc
	s.steps = steps
	s.tempo = NewTempo(doc.Tempo)
	s.lastPattern = ""
	if s.state == Stopped || s.pos >= len(steps) {
		s.pos = 0
	}
	slog.Info("Composition loaded",
		slog.Int("steps", len(steps)),
		slog.Int("sections", len(doc.Timeline)),
		slog.Float64("tempo", doc.Tempo))
}

func (s *Scheduler) Play() {
	s.transport.Lock()
	defer s.transport.Unlock()
	s.MU.Lock()
	defer s.MU.Unlock()
	if s.disposed || s.state == Playing {
		return
	}
	s.state = Playing
	s.start()
	slog.Info("Playback started", slog.Int("step", s.pos))
}

func (s *Scheduler) Pause() {
	s.transport.Lock()
	defer s.transport.Unlock()
	if s.halt(Paused) {
		slog.Info("Playback paused", slog.Int("step", s.pos))
	}
}

func (s *Scheduler) Resume() {
	s.transport.Lock()
	defer s.transport.Unlock()
	s.MU.Lock()
	defer s.MU.Unlock()
	if s.state != Paused {
		return
	}
	s.state = Playing
	s.start()
	slog.Info("Playback resumed", slog.Int("step", s.pos))
}

// Stop halts playback and rewinds to the first step.
func (s *Scheduler) Stop() {
	s.transport.Lock()
	defer s.transport.Unlock()
	s.halt(Stopped)
	s.MU.Lock()
	s.pos = 0
	s.current = StepRef{}
	s.lastPattern = ""
	s.tempo = NewTempo(s.doc.Tempo)
	s.MU.Unlock()
	slog.Info("Playback stopped")
}

// halt moves to state and waits for the clock to exit, called with transport held.
// It reports whether playback was running.
func (s *Scheduler) halt(state State) bool {
	s.MU.Lock()
	was := s.state
	if was == Stopped && state == Paused {
		s.MU.Unlock()
		return false
	}
	s.state = state
	stop := s.StopChan
	s.StopChan = nil
	s.MU.Unlock()

	if stop != nil {
		close(stop)
		s.WG.Wait()
	}
	if err := s.Voice.Flush(); err != nil {
		slog.Error("Could not flush voices", slog.Any("Error", err))
	}
	return was == Playing
}

// start runs the clock, called with MU held.
func (s *Scheduler) start() {
	stop := make(chan struct{})
	s.StopChan = stop

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		next := time.Now()
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case at := <-timer.C:
				if !s.tick(at, true) {
					return
				}
				next = next.Add(s.interval(at))
				timer.Reset(time.Until(next))
			case <-stop:
				return
			}
		}
	}()
}

func (s *Scheduler) interval(at time.Time) time.Duration {
	s.MU.Lock()
	defer s.MU.Unlock()
	return Beat(s.tempo.At(at))
}

// Tick plays the next step as if the clock fired at at.
func (s *Scheduler) Tick(at time.Time) {
	s.tick(at, false)
}

// tick returns false when the clock should exit.
func (s *Scheduler) tick(at time.Time, clocked bool) bool {
	s.MU.Lock()
	if clocked && s.state != Playing {
		s.MU.Unlock()
		return false
	}
	if len(s.steps) == 0 {
		s.MU.Unlock()
		return true
	}

	ref := s.steps[s.pos]
	s.pos = (s.pos + 1) % len(s.steps)
	s.current = ref

	p, ok := s.doc.Patterns[ref.PatternID]
	if !ok || p == nil {
		s.MU.Unlock()
		slog.Debug("Skipping step for missing pattern",
			slog.String("pattern", ref.PatternID),
			slog.Int("timelineIndex", ref.TimelineIndex))
		s.Stats.RecTick(true)
		return true
	}

	if ref.Step == 0 && ref.PatternID != s.lastPattern {
		target := s.doc.EffectiveTempo(p)
		if now := s.tempo.At(at); now != target {
			s.tempo = s.tempo.RampTo(target, at, Measure(now))
		}
	}
	s.lastPattern = ref.PatternID

	when := at.Add(s.Lookahead)
	beat := Beat(s.tempo.At(at))
	events := StepEvents(p, ref.Step, when, beat)

	if s.observer != nil && !s.disposed {
		select {
		case s.draws <- draw{ref: ref, at: when, fn: s.observer}:
		default:
			slog.Debug("Draw queue full, dropping step notification")
		}
	}
	s.MU.Unlock()

	for i := range events {
		if err := s.Voice.Trigger(&events[i]); err != nil {
			slog.Warn("Voice trigger failed",
				slog.String("instrument", string(events[i].Instrument)),
				slog.Any("Error", err))
		}
	}
	s.Stats.RecTick(false)
	return true
}

func (s *Scheduler) drawLoop() {
	for d := range s.draws {
		if wait := time.Until(d.at); wait > 0 {
			time.Sleep(wait)
		}
		d.fn(d.ref.TimelineIndex, d.ref.PatternID, d.ref.Step)
	}
}

// StepEvents resolves every audible track of p at step.
// Muted and silent tracks produce nothing.
func StepEvents(p *Mt.Pattern, step int, at time.Time, beat time.Duration) []Mt.VoiceEvent {
	var events []Mt.VoiceEvent
	for _, inst := range Mt.Instruments {
		tr, ok := p.Tracks[inst]
		if !ok || tr.Muted || tr.Volume <= 0 {
			continue
		}
		mp := Mc.MoodFor(tr.Mood)

		if d := tr.Drum(); d != nil {
			for _, lane := range []struct {
				voice string
				hits  []float64
			}{
				{"kick", d.Pattern.Kick},
				{"snare", d.Pattern.Snare},
				{"hihat", d.Pattern.Hihat},
			} {
				i := step % Mt.DrumSteps
				if i >= len(lane.hits) || lane.hits[i] <= 0 {
					continue
				}
				events = append(events, Mt.VoiceEvent{
					Instrument:  inst,
					Voice:       lane.voice,
					Velocity:    lane.hits[i] * tr.Volume,
					At:          at,
					Duration:    beat / 4,
					Performance: mp.Performance,
				})
			}
			continue
		}

		m := tr.Melodic()
		if m == nil || step >= len(m.Notes) || m.Notes[step].IsRest() {
			continue
		}
		note := m.Notes[step]
		duration := beat / 2
		if note.Chord {
			duration = 2 * beat
		}
		events = append(events, Mt.VoiceEvent{
			Instrument:  inst,
			Notes:       append([]string(nil), note.Notes...),
			Velocity:    mp.Velocity() * tr.Volume,
			At:          at,
			Duration:    duration,
			Performance: mp.Performance,
		})
	}
	return events
}

// SetTempo jumps to bpm, cancelling any ramp in progress.
func (s *Scheduler) SetTempo(bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("tempo must be positive, got %v", bpm)
	}
	s.MU.Lock()
	defer s.MU.Unlock()
	s.tempo = NewTempo(bpm)
	s.doc.Tempo = bpm
	return nil
}

func (s *Scheduler) IsPlaying() bool {
	s.MU.Lock()
	defer s.MU.Unlock()
	return s.state == Playing
}

func (s *Scheduler) State() State {
	s.MU.Lock()
	defer s.MU.Unlock()
	return s.state
}

func (s *Scheduler) Position() Position {
	s.MU.Lock()
	defer s.MU.Unlock()
	return Position{
		State:   s.state.String(),
		Index:   s.pos,
		Steps:   len(s.steps),
		Current: s.current,
		Tempo:   s.tempo.At(time.Now()),
	}
}

// Dispose stops playback and releases the voices.
// The scheduler cannot be used afterwards.
func (s *Scheduler) Dispose() error {
	s.Stop()

	s.MU.Lock()
	if !s.disposed {
		s.disposed = true
		close(s.draws)
	}
	s.MU.Unlock()

	return s.Voice.Close()
}
