package layout

import (
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
)

// AttrPrefix marks figure attributes that instantiate a layout type:
//
//	layout_front: {priority: 1, front_margin_mm: 3}
const AttrPrefix = "layout_"

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	// Logger receives scheduling events. Defaults to a discarding logger.
	Logger *log.Logger
}

// Scheduler runs the layouts of one figure rank by rank.
//
// Within a rank, layouts run in priority order, ties in the order they were
// added. Every enabled layout runs exactly once per rank it reports as
// pending, and ranks are visited in strictly ascending order.
type Scheduler struct {
	host    Host
	logger  *log.Logger
	layouts []Layout

	pos     int // index of the last processed layout, -1 before the first
	rank    int
	next    int
	hasNext bool
}

// NewScheduler returns an empty scheduler for host.
func NewScheduler(host Host, opts SchedulerOptions) *Scheduler {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scheduler{host: host, logger: opts.Logger, pos: -1}
}

// Add schedules l after every layout with the same or lower priority. A
// layout is never placed before the cursor, so adding during a run does not
// reorder what has already run.
func (s *Scheduler) Add(l Layout) error {
	if s.Layout(l.Key()) != nil {
		return errors.New(errors.ErrCodeDuplicate, "layout %q already added", l.Key())
	}
	i := sort.Search(len(s.layouts), func(i int) bool {
		return s.layouts[i].Priority() > l.Priority()
	})
	if i <= s.pos {
		i = s.pos + 1
	}
	s.layouts = append(s.layouts, nil)
	copy(s.layouts[i+1:], s.layouts[i:])
	s.layouts[i] = l
	s.logger.Debug("added layout", "layout", l.Key(), "priority", l.Priority(), "ranks", l.Ranks())
	return nil
}

// AddType instantiates the registered type name and adds it.
func (s *Scheduler) AddType(name string, overrides attrs.Map) (Layout, error) {
	l, err := New(name, s.host, overrides)
	if err != nil {
		return nil, err
	}
	if err := s.Add(l); err != nil {
		return nil, err
	}
	return l, nil
}

// AddFromAttrs adds a layout for every "layout_<type>" entry of m. A nil
// entry is skipped. An entry for a layout already scheduled updates its
// attributes instead. Other keys are ignored.
func (s *Scheduler) AddFromAttrs(m attrs.Map) error {
	type entry struct {
		name      string
		overrides attrs.Map
		priority  int
	}
	var entries []entry
	for _, key := range m.Keys() {
		if !strings.HasPrefix(key, AttrPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, AttrPrefix)
		overrides, ok := attrs.AsMap(m[key])
		if !ok || overrides == nil {
			s.logger.Debug("skipping layout entry", "layout", name)
			continue
		}
		if existing := s.Layout(name); existing != nil {
			if err := s.update(existing, overrides); err != nil {
				return err
			}
			continue
		}
		t, found := Lookup(name)
		if !found {
			return errors.New(errors.ErrCodeNotFound, "unknown layout type %q", name)
		}
		prio, _ := attrs.ToInt(attrs.MergeMaps(t.Defaults, overrides)["priority"])
		entries = append(entries, entry{name: name, overrides: overrides, priority: prio})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].priority < entries[j].priority })
	for _, e := range entries {
		if _, err := s.AddType(e.name, e.overrides); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) update(l Layout, overrides attrs.Map) error {
	a, ok := l.(interface{ Attrs() *attrs.Bag })
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "layout %q has no attributes", l.Key())
	}
	a.Attrs().Update(overrides)
	if s.pos < 0 {
		sort.SliceStable(s.layouts, func(i, j int) bool {
			return s.layouts[i].Priority() < s.layouts[j].Priority()
		})
	}
	return nil
}

// Layout returns the layout keyed key, or nil.
func (s *Scheduler) Layout(key string) Layout {
	for _, l := range s.layouts {
		if l.Key() == key {
			return l
		}
	}
	return nil
}

// Layouts returns the layouts in run order.
func (s *Scheduler) Layouts() []Layout {
	return append([]Layout(nil), s.layouts...)
}

// Len returns the number of layouts.
func (s *Scheduler) Len() int { return len(s.layouts) }

// Pos returns the index of the last processed layout in the current rank,
// or -1.
func (s *Scheduler) Pos() int { return s.pos }

// Rank returns the rank being processed.
func (s *Scheduler) Rank() int { return s.rank }

// Last returns the last processed layout, or nil.
func (s *Scheduler) Last() Layout {
	if s.pos < 0 || s.pos >= len(s.layouts) {
		return nil
	}
	return s.layouts[s.pos]
}

// Done reports whether every layout has run at every rank it declared.
func (s *Scheduler) Done() bool {
	return s.pos == len(s.layouts)-1 && !s.hasNext
}

// Attrs returns the attributes of every layout as "layout_<key>" entries.
func (s *Scheduler) Attrs() attrs.Map {
	out := attrs.Map{}
	for _, l := range s.layouts {
		if a, ok := l.(interface{ Attrs() *attrs.Bag }); ok {
			out[AttrPrefix+l.Key()] = a.Attrs().Map()
		}
	}
	return out
}

// Reset clears the layouts and the cursor.
func (s *Scheduler) Reset() {
	s.layouts = nil
	s.pos, s.rank, s.next, s.hasNext = -1, 0, 0, false
}

// Run processes pending layouts and reports whether any layout ran.
//
// Each pass runs the next layoutBudget layouts at the current rank. Once
// the last layout has run, the rank advances to the smallest pending rank
// any layout reported, and rankBudget is decremented; the call returns when
// it reaches 0. A budget of 0 is unbounded. An error stops the run; the
// failing layout counts as processed.
func (s *Scheduler) Run(rankBudget, layoutBudget int) (bool, error) {
	ran := false
	for {
		start := s.pos + 1
		end := len(s.layouts)
		if layoutBudget > 0 && start+layoutBudget < end {
			end = start + layoutBudget
		}
		if start >= end {
			return ran, nil
		}

		for i := start; i < end; i++ {
			l := s.layouts[i]
			if !l.Enabled() {
				continue
			}
			ran = true
			s.logger.Debug("running layout", "layout", l.Key(), "rank", s.rank)
			next, ok, err := l.Run(s.rank)
			if err != nil {
				s.pos = i
				code := errors.GetCode(err)
				if code == "" {
					code = errors.ErrCodeInternal
				}
				return ran, errors.Wrap(code, err, "layout %q at rank %d", l.Key(), s.rank)
			}
			if ok && next > s.rank && (!s.hasNext || next < s.next) {
				s.next, s.hasNext = next, true
			}
		}
		s.pos = end - 1

		if s.pos != len(s.layouts)-1 || !s.hasNext {
			return ran, nil
		}
		s.rank, s.hasNext, s.pos = s.next, false, -1
		s.logger.Debug("advancing rank", "rank", s.rank)
		if rankBudget > 0 {
			rankBudget--
			if rankBudget == 0 {
				return ran, nil
			}
		}
	}
}
