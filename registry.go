package iec104

import (
	"sync"
	"time"
)

/*
Point is a single typed entry in the registry: an IOA, its declared
TypeID, current value, quality, and last-update instant (§3). Grounded
on the per-IOA dict-of-points split the Python original keeps
(self.sp_pts / self.cmd_pts / self.ana_pts in
original_source/Hydropower/Server/iec104_hydropower.py), reimplemented
as the typed table Design Note §9 calls for instead of a thread sharing
a flat list.
*/
type Point struct {
	IOA        IOA
	TypeID     TypeID
	Value      Measurement
	Quality    byte
	LastUpdate time.Time
}

/*
Registry is the server's point table (§4.3): two maps keyed by IOA,
one for points the simulator produces and peers read (measurement),
one for points peers write (command); the dispatcher mirrors each
accepted command value into the matching measurement point. A single RWMutex guards both, matching §4.3's "simulator
thread holds the registry's write lock... dispatcher thread reads with
a shared lock" and §5's "point registry is the only shared mutable
state; protect with a reader-writer lock".
*/
type Registry struct {
	mu           sync.RWMutex
	measurements map[IOA]*Point
	commands     map[IOA]*Point
}

func NewRegistry() *Registry {
	return &Registry{
		measurements: make(map[IOA]*Point),
		commands:     make(map[IOA]*Point),
	}
}

// RegisterMeasurement creates a measurement point with its initial
// value. Called once at server start (§3's "Points are created at
// server start").
func (r *Registry) RegisterMeasurement(ioa IOA, typeID TypeID, initial Measurement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measurements[ioa] = &Point{IOA: ioa, TypeID: typeID, Value: initial, LastUpdate: time.Now()}
}

// RegisterCommand creates a command point with its initial value.
func (r *Registry) RegisterCommand(ioa IOA, typeID TypeID, initial Measurement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[ioa] = &Point{IOA: ioa, TypeID: typeID, Value: initial, LastUpdate: time.Now()}
}

// WriteMeasurement overwrites a measurement point's value. Used by the
// simulator tick; the caller already knows the IOA is registered.
func (r *Registry) WriteMeasurement(ioa IOA, v Measurement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.measurements[ioa]; ok {
		p.Value = v
		p.LastUpdate = time.Now()
	}
}

// ReadMeasurement returns a copy of the measurement point, or
// UnknownIoaError if ioa was never registered.
func (r *Registry) ReadMeasurement(ioa IOA) (Point, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.measurements[ioa]
	if !ok {
		return Point{}, &UnknownIoaError{IOA: ioa}
	}
	return *p, nil
}

// WriteCommand applies an incoming command write: it rejects an
// unregistered IOA or a TypeID mismatch (§4.3), then records the new
// value on the command point only — the caller is responsible for
// mirroring it to the corresponding measurement IOA (§4.4 item 2/3).
func (r *Registry) WriteCommand(ioa IOA, typeID TypeID, v Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.commands[ioa]
	if !ok {
		return &UnknownIoaError{IOA: ioa}
	}
	if p.TypeID != typeID {
		return &TypeMismatchError{IOA: ioa, Want: p.TypeID, Got: typeID}
	}
	p.Value = v
	p.LastUpdate = time.Now()
	return nil
}

// MeasurementSnapshot is a single measurement point captured for the
// interrogation burst, carrying just enough to build its ASDU.
type MeasurementSnapshot struct {
	IOA    IOA
	TypeID TypeID
	Value  Measurement
}

// Snapshot returns all measurement points ordered per §4.4 item 1:
// Bool-valued points ascending by IOA first, then Float-valued points
// ascending by IOA. This ordering is what makes two consecutive
// interrogations comparable (§8 property 6).
func (r *Registry) Snapshot() []MeasurementSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bools, floats []MeasurementSnapshot
	for ioa, p := range r.measurements {
		snap := MeasurementSnapshot{IOA: ioa, TypeID: p.TypeID, Value: p.Value}
		if p.Value.Kind == KindBool {
			bools = append(bools, snap)
		} else {
			floats = append(floats, snap)
		}
	}
	sortByIOA(bools)
	sortByIOA(floats)
	return append(bools, floats...)
}

func sortByIOA(s []MeasurementSnapshot) {
	// Small registries (tens of points): insertion sort is plenty and
	// keeps this dependency-free.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].IOA > s[j].IOA; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
