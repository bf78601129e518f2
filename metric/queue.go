// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Queue-size trace lines look like
//
//	Queue Size: <shared>/<worst>/<unreclaimed>/ Time: <t>
//
// The trace ends at EOF or at the harness's run-time summary line.
const (
	queueMarker = "Queue Size:"
	runTimeMark = "[OVERALL], RunTime"
)

// A QueuePoint is one sample of the remembered-set queue sizes, in
// records.
type QueuePoint struct {
	// Time is relative to the sample preceding the first one, so
	// the first point is at time 1.
	Time float64

	// Shared is the size of the shared remset with immediate
	// reclamation.
	Shared float64
	// Worst is the combined size of one remset per concurrent
	// analytic.
	Worst float64
	// Unreclaimed is the size of the shared remset without
	// immediate reclamation.
	Unreclaimed float64
}

// A QueueSeries is the queue-size trace of one run.
type QueueSeries struct {
	Points []QueuePoint
}

// ReadQueueSeries reads the queue-size trace in the file at path.
func ReadQueueSeries(path string) (*QueueSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseQueueSeries(f, path)
}

// ParseQueueSeries reads a queue-size trace from r. fileName is used in
// error messages only.
func ParseQueueSeries(r io.Reader, fileName string) (*QueueSeries, error) {
	s := bufio.NewScanner(r)
	s.Buffer(nil, 1<<20)
	qs := new(QueueSeries)
	var first float64
	line := 0
	for s.Scan() {
		line++
		text := s.Text()
		if strings.Contains(text, queueMarker) {
			vals, err := parseQueueLine(text)
			if err != nil {
				return nil, &FieldError{fileName, line, err.Error()}
			}
			if len(qs.Points) == 0 {
				first = vals[3] - 1
			}
			qs.Points = append(qs.Points, QueuePoint{
				Time:        vals[3] - first,
				Shared:      vals[0],
				Worst:       vals[1],
				Unreclaimed: vals[2],
			})
		}
		if strings.Contains(text, runTimeMark) {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s:%d", fileName, line)
	}
	if len(qs.Points) == 0 {
		return nil, errors.Wrap(ErrNoMarker, fileName)
	}
	return qs, nil
}

// parseQueueLine returns the shared, worst, unreclaimed and time
// values of a queue-size line. Each is the last field of its
// slash-separated part.
func parseQueueLine(text string) ([4]float64, error) {
	var vals [4]float64
	parts := strings.Split(text, "/")
	if len(parts) < 4 {
		return vals, errors.Newf("queue line has %d parts, want 4", len(parts))
	}
	for i := range vals {
		f := strings.Fields(parts[i])
		if len(f) == 0 {
			return vals, errors.Newf("empty queue field %d", i)
		}
		v, err := strconv.ParseFloat(f[len(f)-1], 64)
		if err != nil {
			return vals, errors.Newf("bad queue field %d %q", i, f[len(f)-1])
		}
		vals[i] = v
	}
	return vals, nil
}

// LogSize maps a remset size in records onto the charted log axis,
// where 0, 1, 2, 3 correspond to 0.1, 1, 10, 100 million records.
func LogSize(records float64) float64 {
	return math.Log10((records/1e6 + 0.1) * 10)
}

// Max returns the largest shared and worst-case remset sizes in q.
func (q *QueueSeries) Max() (shared, worst float64) {
	for _, p := range q.Points {
		shared = math.Max(shared, p.Shared)
		worst = math.Max(worst, p.Worst)
	}
	return shared, worst
}

// PeakWorst returns the index of the first point at which the
// worst-case size reaches its maximum, or -1 if q is empty.
func (q *QueueSeries) PeakWorst() int {
	peak := -1
	for i, p := range q.Points {
		if peak < 0 || p.Worst > q.Points[peak].Worst {
			peak = i
		}
	}
	return peak
}

// FillStart returns the index of the first point at which the
// unreclaimed remset is larger than the shared one, or -1 if that
// never happens. The region between the two curves from there on is
// the memory immediate reclamation saves.
func (q *QueueSeries) FillStart() int {
	for i, p := range q.Points {
		if p.Unreclaimed > p.Shared {
			return i
		}
	}
	return -1
}

// End returns the time of the last point, or 0 if q is empty.
func (q *QueueSeries) End() float64 {
	if len(q.Points) == 0 {
		return 0
	}
	return q.Points[len(q.Points)-1].Time
}

// Log returns a copy of q with every size mapped through LogSize.
func (q *QueueSeries) Log() *QueueSeries {
	l := &QueueSeries{Points: make([]QueuePoint, len(q.Points))}
	for i, p := range q.Points {
		l.Points[i] = QueuePoint{
			Time:        p.Time,
			Shared:      LogSize(p.Shared),
			Worst:       LogSize(p.Worst),
			Unreclaimed: LogSize(p.Unreclaimed),
		}
	}
	return l
}
