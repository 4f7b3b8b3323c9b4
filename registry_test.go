package iec104

import "testing"

func TestRegistry_WriteCommand_UnknownIoa(t *testing.T) {
	r := NewRegistry()
	err := r.WriteCommand(9999, CScNa1, BoolMeasurement(true))
	if !IsUnknownIoa(err) {
		t.Fatalf("WriteCommand() error = %v, want UnknownIoaError", err)
	}
}

func TestRegistry_WriteCommand_TypeMismatch(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand(CmdWaterInlet, CScNa1, BoolMeasurement(false))
	err := r.WriteCommand(CmdWaterInlet, CSeNc1, Float32Measurement(1))
	if !IsTypeMismatch(err) {
		t.Fatalf("WriteCommand() error = %v, want TypeMismatchError", err)
	}
}

func TestRegistry_ReadMeasurement_UnknownIoa(t *testing.T) {
	r := NewRegistry()
	_, err := r.ReadMeasurement(9999)
	if !IsUnknownIoa(err) {
		t.Fatalf("ReadMeasurement() error = %v, want UnknownIoaError", err)
	}
}

func TestRegistry_WriteCommand_Success(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand(CmdWaterInlet, CScNa1, BoolMeasurement(false))
	if err := r.WriteCommand(CmdWaterInlet, CScNa1, BoolMeasurement(true)); err != nil {
		t.Fatalf("WriteCommand() error = %v", err)
	}
}

func TestRegistry_Snapshot_Ordering(t *testing.T) {
	r := NewRegistry()
	r.RegisterMeasurement(1102, MSpNa1, BoolMeasurement(false))
	r.RegisterMeasurement(1100, MSpNa1, BoolMeasurement(true))
	r.RegisterMeasurement(10012, MMeNc1, Float32Measurement(1))
	r.RegisterMeasurement(10010, MMeNc1, Float32Measurement(2))

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("len(Snapshot()) = %d, want 4", len(snap))
	}
	want := []IOA{1100, 1102, 10010, 10012}
	for i, ioa := range want {
		if snap[i].IOA != ioa {
			t.Errorf("Snapshot()[%d].IOA = %d, want %d", i, snap[i].IOA, ioa)
		}
	}
}

func TestRegistry_Snapshot_Deterministic(t *testing.T) {
	r := NewRegistry()
	r.RegisterMeasurement(1100, MSpNa1, BoolMeasurement(false))
	r.RegisterMeasurement(1101, MSpNa1, BoolMeasurement(true))
	r.RegisterMeasurement(10010, MMeNc1, Float32Measurement(3.0))

	first := r.Snapshot()
	second := r.Snapshot()
	if len(first) != len(second) {
		t.Fatalf("snapshot lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].IOA != second[i].IOA {
			t.Errorf("snapshot order differs at %d: %d vs %d", i, first[i].IOA, second[i].IOA)
		}
	}
}
