// Copyright 2024 The cds-pg-sub004 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package csn

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"
)

// Severity is the severity of a diagnostic Message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Location is a primary source occurrence: file, start/end line/column.
type Location struct {
	File             string
	Line, Col        int
	EndLine, EndCol  int
}

// Message is one structured diagnostic: severity, message id, a primary
// location, optional semantic home (the artifact/member this message is
// really about), variadic substitution parameters, and an optional
// validNames payload the editor probe surfaces as completion candidates.
type Message struct {
	Severity  Severity
	ID        string
	Loc       Location
	Home      string // absolute name of the artifact/member this message concerns, if any
	Text      string
	Params    []interface{}
	ValidNames []string
}

// String renders a message the way engine-level consumers expect to print
// diagnostics: `file:line:col: severity: text [id]`.
func (m Message) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]", m.Loc.File, m.Loc.Line, m.Loc.Col, m.Severity, m.Text, m.ID)
}

// Sink collects diagnostics for one compile. It is append-only; Add drops a
// message equivalent to one already recorded, and Messages returns them
// sorted each time it is called (spec.md §5).
type Sink struct {
	mu       sync.Mutex
	messages []Message
	seen     map[uint64]bool
	logger   *logrus.Entry
}

// NewSink returns an empty Sink. logger may be nil, in which case a
// logrus.Entry is created from the standard logger the first time it's
// needed -- mirroring sql.Context.GetLogger()'s lazy-default pattern.
func NewSink(logger *logrus.Entry) *Sink {
	return &Sink{seen: make(map[uint64]bool), logger: logger}
}

// Logger returns the sink's logger, defaulting to the standard logrus
// logger's entry.
func (s *Sink) Logger() *logrus.Entry {
	if s.logger == nil {
		s.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return s.logger
}

// Add appends msg to the sink unless an equivalent message (by structural
// hash of id+location+params) was already recorded, mirroring the
// deduplication behaviour spec.md §5 requires of message sinks.
func (s *Sink) Add(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := hashstructure.Hash(struct {
		ID     string
		Loc    Location
		Params []interface{}
	}{msg.ID, msg.Loc, msg.Params}, nil)
	if err == nil {
		if s.seen[key] {
			return
		}
		s.seen[key] = true
	}
	s.messages = append(s.messages, msg)
	messagesTotal.WithLabelValues(msg.Severity.String()).Inc()

	switch msg.Severity {
	case SeverityError:
		s.Logger().Errorf("%s", msg.String())
	case SeverityWarning:
		s.Logger().Warnf("%s", msg.String())
	default:
		s.Logger().Debugf("%s", msg.String())
	}
}

// Errorf constructs and adds an error-severity message from a *errors.Kind
// style format string plus its own substitution arguments, at loc, optionally
// homed on home.
func (s *Sink) Errorf(id string, loc Location, home string, format string, args ...interface{}) {
	s.Add(Message{Severity: SeverityError, ID: id, Loc: loc, Home: home, Text: fmt.Sprintf(format, args...), Params: args})
}

// Warnf is like Errorf but at warning severity.
func (s *Sink) Warnf(id string, loc Location, home string, format string, args ...interface{}) {
	s.Add(Message{Severity: SeverityWarning, ID: id, Loc: loc, Home: home, Text: fmt.Sprintf(format, args...), Params: args})
}

// Infof is like Errorf but at info severity.
func (s *Sink) Infof(id string, loc Location, home string, format string, args ...interface{}) {
	s.Add(Message{Severity: SeverityInfo, ID: id, Loc: loc, Home: home, Text: fmt.Sprintf(format, args...), Params: args})
}

// Messages returns a stably sorted, deduplicated snapshot of every message
// recorded so far: by location (file, line, col), then by message id.
func (s *Sink) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Loc.File != b.Loc.File {
			return a.Loc.File < b.Loc.File
		}
		if a.Loc.Line != b.Loc.Line {
			return a.Loc.Line < b.Loc.Line
		}
		if a.Loc.Col != b.Loc.Col {
			return a.Loc.Col < b.Loc.Col
		}
		return a.ID < b.ID
	})
	return out
}

// HasErrors reports whether any error-severity message has been recorded.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountErrors returns the number of error-severity messages recorded so far.
func (s *Sink) CountErrors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if m.Severity == SeverityError {
			n++
		}
	}
	return n
}
