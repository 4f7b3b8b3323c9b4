package iec104

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Physical constants for the hydropower plant model (§4.5), carried
// over verbatim from
// original_source/Hydropower/Server/iec104_hydropower.py rather than
// re-derived, per SPEC_FULL.md.
const (
	maxWaterSpeed   = 5.0   // m3/s
	maxTurbineSpeed = 250.0 // RPM

	prodVoltageMidpoint = 3300.0 // volts
	prodVoltageLow      = 2500.0 // volts

	gridPowerAdjustmentInterval = 120 * time.Second
	gridPowerFluctuation        = 0.4  // 40% change in demand
	gridPowerMidpoint           = 1305.0
	adjustmentFactor            = 30.0

	temperatureEnv          = 15.0 // degrees celsius
	temperatureStartCooling = 70.0
	temperatureStopCooling  = 40.0 // unused by manage_cooling_system in the original; kept for reference
	coolingFactor           = 0.02
	coolingDurationConst    = 30 * time.Second

	temperatureError = 110.0
	errorFloat       = 9999.0
)

// sequenceStep is one elapsed-time-gated action of a startup or
// shutdown sequence. Design Note §9 calls for expressing these as
// state machines advanced by the simulator tick rather than dedicated
// sleeping goroutines (the Python original spawns a thread per
// sequence and sleeps inline).
type sequenceStep struct {
	at    time.Duration
	apply func(r *Registry)
}

// runningSequence advances through its steps as wall-clock time passes
// the 1 Hz tick; it never re-applies a step once done.
type runningSequence struct {
	start   time.Time
	steps   []sequenceStep
	nextIdx int
}

// tick applies every step now due and reports whether the sequence has
// completed.
func (s *runningSequence) tick(now time.Time, r *Registry) bool {
	elapsed := now.Sub(s.start)
	for s.nextIdx < len(s.steps) && elapsed >= s.steps[s.nextIdx].at {
		s.steps[s.nextIdx].apply(r)
		s.nextIdx++
	}
	return s.nextIdx >= len(s.steps)
}

func newStartupSequence(start time.Time) *runningSequence {
	return &runningSequence{
		start: start,
		steps: []sequenceStep{
			{0, func(r *Registry) { r.WriteMeasurement(SPWaterInlet, BoolMeasurement(true)) }},
			{15 * time.Second, func(r *Registry) { r.WriteMeasurement(SPExciteSwitch, BoolMeasurement(true)) }},
			{40 * time.Second, func(r *Registry) { r.WriteMeasurement(SPTransformerSwitch, BoolMeasurement(true)) }},
			{43 * time.Second, func(r *Registry) {
				r.WriteMeasurement(SPGridSwitch, BoolMeasurement(true))
				r.WriteMeasurement(SPStartProcess, BoolMeasurement(false))
			}},
		},
	}
}

func newShutdownSequence(start time.Time) *runningSequence {
	return &runningSequence{
		start: start,
		steps: []sequenceStep{
			{0, func(r *Registry) {
				r.WriteMeasurement(SPGridSwitch, BoolMeasurement(false))
				r.WriteMeasurement(SPTransformerSwitch, BoolMeasurement(false))
			}},
			{1 * time.Second, func(r *Registry) { r.WriteMeasurement(SPExciteSwitch, BoolMeasurement(false)) }},
			{4 * time.Second, func(r *Registry) {
				r.WriteMeasurement(SPWaterInlet, BoolMeasurement(false))
				r.WriteMeasurement(SPCoolingSwitch, BoolMeasurement(false))
				r.WriteMeasurement(SPShutdownProcess, BoolMeasurement(false))
			}},
		},
	}
}

/*
Simulator is the 1 Hz hydropower process model (C5, §4.5): water inlet
-> turbine -> exciter -> transformer -> grid breaker, coupled to
thermal/cooling dynamics and fault latching. It owns its own private
state exclusively (§5: "the dispatcher never touches it") and mutates
the registry's measurement points on each Tick.
*/
type Simulator struct {
	registry *Registry
	rng      *rand.Rand

	waterSpeed       float64
	gridVoltage      float64
	gridPowerTarget  float64
	lastTargetUpdate time.Time
	coolingActive    bool
	lastCoolingStart time.Time
	processError     bool

	turbineSpeed     float64
	generatorVoltage float64
	gridPower        float64
	bearingTemp      float64

	startupSeq  *runningSequence
	shutdownSeq *runningSequence
}

// NewSimulator creates the simulator and registers its measurement
// points with their startup values (§3, §8 scenario S3): all seven
// booleans false, the three power/speed floats 0, bearing temperature
// at ambient.
func NewSimulator(registry *Registry) *Simulator {
	now := time.Now()
	sim := &Simulator{
		registry:         registry,
		rng:              rand.New(rand.NewSource(now.UnixNano())),
		gridVoltage:      gridPowerMidpoint,
		gridPowerTarget:  gridPowerMidpoint,
		lastTargetUpdate: now,
		bearingTemp:      temperatureEnv,
	}

	for _, ioa := range spMeasurementIOAs {
		registry.RegisterMeasurement(ioa, MSpNa1, BoolMeasurement(false))
	}
	for _, ioa := range spCommandIOAs {
		registry.RegisterCommand(ioa, CScNa1, BoolMeasurement(false))
	}
	registry.RegisterMeasurement(AnaTurbineSpeed, MMeNc1, Float32Measurement(0))
	registry.RegisterMeasurement(AnaGeneratorVoltage, MMeNc1, Float32Measurement(0))
	registry.RegisterMeasurement(AnaGridPower, MMeNc1, Float32Measurement(0))
	registry.RegisterMeasurement(AnaBearingTemp, MMeNc1, Float32Measurement(temperatureEnv))
	registry.RegisterCommand(SetpointIOA(AnaTurbineSpeed), CSeNc1, Float32Measurement(0))
	registry.RegisterCommand(SetpointIOA(AnaGeneratorVoltage), CSeNc1, Float32Measurement(0))
	registry.RegisterCommand(SetpointIOA(AnaGridPower), CSeNc1, Float32Measurement(0))
	registry.RegisterCommand(SetpointIOA(AnaBearingTemp), CSeNc1, Float32Measurement(0))

	return sim
}

// SetpointIOA is the command IOA that writes to a given float
// measurement IOA, mirroring the SetPointOffset relationship the
// booleans use.
func SetpointIOA(measurementIOA IOA) IOA {
	return measurementIOA + SetPointOffset
}

func (sim *Simulator) uniform(lo, hi float64) float64 {
	return lo + sim.rng.Float64()*(hi-lo)
}

func (r *Registry) mustBool(ioa IOA) bool {
	p, err := r.ReadMeasurement(ioa)
	if err != nil {
		return false
	}
	return p.Value.Bool
}

// Run ticks the simulator once per second until ctx is canceled,
// matching §5's "1-second simulator tick" suspension point.
func (sim *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sim.Tick(now)
		}
	}
}

// Tick advances the process model by one step (§4.5, items 1-11).
func (sim *Simulator) Tick(now time.Time) {
	reg := sim.registry

	startFlag := reg.mustBool(SPStartProcess)
	shutdownFlag := reg.mustBool(SPShutdownProcess)

	if startFlag && !shutdownFlag && sim.startupSeq == nil {
		sim.startupSeq = newStartupSequence(now)
	}
	if shutdownFlag && !startFlag && sim.shutdownSeq == nil {
		sim.shutdownSeq = newShutdownSequence(now)
	}
	if sim.startupSeq != nil && sim.startupSeq.tick(now, reg) {
		sim.startupSeq = nil
	}
	if sim.shutdownSeq != nil && sim.shutdownSeq.tick(now, reg) {
		sim.shutdownSeq = nil
	}

	inlet := reg.mustBool(SPWaterInlet)
	exciter := reg.mustBool(SPExciteSwitch)
	transformer := reg.mustBool(SPTransformerSwitch)
	gridSwitch := reg.mustBool(SPGridSwitch)
	coolingOn := reg.mustBool(SPCoolingSwitch)

	// 3. water speed
	if inlet {
		sim.waterSpeed = math.Min(maxWaterSpeed, sim.waterSpeed+0.15)
	} else {
		sim.waterSpeed = math.Max(0, sim.waterSpeed-0.15)
	}

	// 4. turbine speed
	if sim.waterSpeed <= 0.80*maxWaterSpeed {
		sim.turbineSpeed = sim.waterSpeed * (maxTurbineSpeed / maxWaterSpeed)
	} else {
		sim.turbineSpeed += 3
	}
	sim.turbineSpeed = math.Min(sim.turbineSpeed, maxTurbineSpeed)

	// 5. generator voltage
	if !exciter {
		sim.generatorVoltage = 0
	} else {
		proportion := sim.turbineSpeed / maxTurbineSpeed
		base := proportion * prodVoltageMidpoint
		sim.generatorVoltage = base * (1 + sim.uniform(-0.05, 0.05))
	}
	if gridSwitch {
		if sim.generatorVoltage < prodVoltageLow {
			sim.processError = true
		} else {
			sim.generatorVoltage = sim.gridVoltage
		}
	}

	// 6. grid voltage
	sim.gridVoltage = math.Trunc(prodVoltageMidpoint * (1 + sim.uniform(-0.03, 0.03)))

	// 7/8. grid power target + grid power
	if now.Sub(sim.lastTargetUpdate) >= gridPowerAdjustmentInterval {
		spread := gridPowerMidpoint * gridPowerFluctuation
		sim.gridPowerTarget = gridPowerMidpoint + sim.uniform(-spread, spread)
		sim.lastTargetUpdate = now
	}
	if !transformer || !gridSwitch || sim.generatorVoltage < prodVoltageMidpoint*0.8 {
		sim.gridPower = 0
	} else if sim.gridPower == 0 {
		sim.gridPower = gridPowerMidpoint + (sim.gridPowerTarget-gridPowerMidpoint)/adjustmentFactor
	} else {
		sim.gridPower += (sim.gridPowerTarget - sim.gridPower) / adjustmentFactor
	}

	// 9. bearing temperature
	loadFactor := sim.gridPower / gridPowerMidpoint
	load := 0.5 + loadFactor*loadFactor
	if sim.turbineSpeed > 0 {
		sim.bearingTemp += (sim.turbineSpeed / maxTurbineSpeed) * 0.5 * load
	} else {
		sim.bearingTemp = math.Max(sim.bearingTemp-sim.bearingTemp*coolingFactor, temperatureEnv)
	}
	if coolingOn {
		sim.bearingTemp = math.Max(sim.bearingTemp-sim.bearingTemp*coolingFactor, temperatureEnv)
	}
	if sim.bearingTemp > temperatureError {
		sim.processError = true
	}

	// 10. cooling management
	var coolingElapsed time.Duration
	if sim.coolingActive {
		coolingElapsed = now.Sub(sim.lastCoolingStart)
	}
	var enableCooling bool
	switch {
	case sim.bearingTemp > temperatureStartCooling:
		if !sim.coolingActive || coolingElapsed >= coolingDurationConst {
			sim.lastCoolingStart = now
			sim.coolingActive = true
			enableCooling = true
		} else {
			enableCooling = coolingOn
		}
	case sim.coolingActive && coolingElapsed > coolingDurationConst:
		enableCooling = false
		sim.coolingActive = false
	default:
		enableCooling = coolingOn
	}
	reg.WriteMeasurement(SPCoolingSwitch, BoolMeasurement(enableCooling))

	// 11. error latch overwrites every measurement point with sentinels.
	if sim.processError {
		for _, ioa := range anaMeasurementIOAs {
			reg.WriteMeasurement(ioa, Float32Measurement(errorFloat))
		}
		for _, ioa := range spMeasurementIOAs {
			reg.WriteMeasurement(ioa, BoolMeasurement(true))
		}
		return
	}

	reg.WriteMeasurement(AnaTurbineSpeed, Float32Measurement(float32(sim.turbineSpeed)))
	reg.WriteMeasurement(AnaGeneratorVoltage, Float32Measurement(float32(sim.generatorVoltage)))
	reg.WriteMeasurement(AnaGridPower, Float32Measurement(float32(sim.gridPower)))
	reg.WriteMeasurement(AnaBearingTemp, Float32Measurement(float32(sim.bearingTemp)))
}
