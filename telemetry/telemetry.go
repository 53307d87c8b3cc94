// Package telemetry records per-frame emitter statistics as CSV.
package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"particle-engine/particle"
)

// Sample is one CSV row.
type Sample struct {
	Frame    int     `csv:"frame"`
	Emitter  string  `csv:"emitter"`
	State    string  `csv:"state"`
	Live     int     `csv:"live"`
	Spawned  int     `csv:"spawned"`
	Recycled int     `csv:"recycled"`
	Dropped  int     `csv:"dropped"`
	Died     int     `csv:"died"`
	DistMean float64 `csv:"dist_mean"`
	DistStd  float64 `csv:"dist_std"`
	DistMin  float64 `csv:"dist_min"`
	DistMax  float64 `csv:"dist_max"`
}

// DistanceSummary describes distanceFromCamera over live particles.
type DistanceSummary struct {
	Mean, StdDev, Min, Max float64
}

// Summarize computes distance statistics over the live slots. buf is reused
// scratch space and may be nil; the grown buffer is returned.
func Summarize(particles []particle.Particle, buf []float64) (DistanceSummary, []float64) {
	buf = buf[:0]
	for i := range particles {
		if particles[i].Alive() {
			buf = append(buf, float64(particles[i].DistanceFromCamera))
		}
	}
	if len(buf) == 0 {
		return DistanceSummary{}, buf
	}
	mean, std := stat.MeanStdDev(buf, nil)
	if len(buf) == 1 {
		std = 0
	}
	return DistanceSummary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(buf),
		Max:    floats.Max(buf),
	}, buf
}

// Recorder buffers samples and writes them to w in batches.
type Recorder struct {
	w             io.Writer
	flushEvery    int
	pending       []Sample
	headerWritten bool
	scratch       []float64
}

// NewRecorder writes a header with the first batch. flushEvery <= 0 writes
// every sample immediately.
func NewRecorder(w io.Writer, flushEvery int) *Recorder {
	if flushEvery <= 0 {
		flushEvery = 1
	}
	return &Recorder{
		w:          w,
		flushEvery: flushEvery,
		pending:    make([]Sample, 0, flushEvery),
	}
}

// Snapshot builds a sample from the emitter's state after its last Update.
func (r *Recorder) Snapshot(frame int, e *particle.Emitter) Sample {
	var sum DistanceSummary
	sum, r.scratch = Summarize(e.Particles(), r.scratch)
	st := e.Stats()
	return Sample{
		Frame:    frame,
		Emitter:  e.ID().String(),
		State:    e.State().String(),
		Live:     e.ParticleCount(),
		Spawned:  st.Spawned,
		Recycled: st.Recycled,
		Dropped:  st.Dropped,
		Died:     st.Died,
		DistMean: sum.Mean,
		DistStd:  sum.StdDev,
		DistMin:  sum.Min,
		DistMax:  sum.Max,
	}
}

// Record queues s and flushes when the batch is full.
func (r *Recorder) Record(s Sample) error {
	r.pending = append(r.pending, s)
	if len(r.pending) >= r.flushEvery {
		return r.Flush()
	}
	return nil
}

// Flush writes all queued samples.
func (r *Recorder) Flush() error {
	if r == nil || len(r.pending) == 0 {
		return nil
	}
	var err error
	if !r.headerWritten {
		err = gocsv.Marshal(r.pending, r.w)
		r.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(r.pending, r.w)
	}
	if err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	r.pending = r.pending[:0]
	return nil
}
