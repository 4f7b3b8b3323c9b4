package iec104

// IOA map for the hydropower process (§6's informative table, and the
// full constant set from
// original_source/Hydropower/Server/iec104_hydropower.py). SET_POINT_OFFSET
// relates each command IOA to the measurement IOA it mirrors into:
// CmdIOA - SetPointOffset == matching measurement IOA.
const SetPointOffset = 14000

// Single-point measurements (M_SP_NA_1).
const (
	SPWaterInlet         IOA = 1100 // water inlet valve to turbine
	SPExciteSwitch       IOA = 1101 // switch exciting voltage in generator
	SPTransformerSwitch  IOA = 1102 // switch between generator and transformer
	SPGridSwitch         IOA = 1103 // switch between transformer and power grid
	SPCoolingSwitch      IOA = 1104 // enable cooling fluid system for bearings
	SPStartProcess       IOA = 1105 // activate startup sequence
	SPShutdownProcess    IOA = 1106 // activate shutdown sequence
)

// Single-point commands (C_SC_NA_1), each SetPointOffset above its
// mirrored measurement IOA.
const (
	CmdWaterInlet        IOA = SPWaterInlet + SetPointOffset
	CmdExciteSwitch      IOA = SPExciteSwitch + SetPointOffset
	CmdTransformerSwitch IOA = SPTransformerSwitch + SetPointOffset
	CmdGridSwitch        IOA = SPGridSwitch + SetPointOffset
	CmdCoolingSwitch     IOA = SPCoolingSwitch + SetPointOffset
	CmdStartProcess      IOA = SPStartProcess + SetPointOffset
	CmdShutdownProcess   IOA = SPShutdownProcess + SetPointOffset
)

// Floating-point measurements (M_ME_NC_1).
const (
	AnaTurbineSpeed     IOA = 10010 // RPM of turbine
	AnaGeneratorVoltage IOA = 10011 // voltage produced by generator
	AnaGridPower        IOA = 10012 // estimated kW produced
	AnaBearingTemp      IOA = 10013 // bearing temperature
)

// spMeasurementIOAs lists every boolean measurement point, in the
// order registered at server start.
var spMeasurementIOAs = []IOA{
	SPWaterInlet, SPExciteSwitch, SPTransformerSwitch,
	SPGridSwitch, SPCoolingSwitch, SPStartProcess, SPShutdownProcess,
}

// spCommandIOAs lists every boolean command point.
var spCommandIOAs = []IOA{
	CmdWaterInlet, CmdExciteSwitch, CmdTransformerSwitch,
	CmdGridSwitch, CmdCoolingSwitch, CmdStartProcess, CmdShutdownProcess,
}

// anaMeasurementIOAs lists every float measurement point.
var anaMeasurementIOAs = []IOA{
	AnaTurbineSpeed, AnaGeneratorVoltage, AnaGridPower, AnaBearingTemp,
}
