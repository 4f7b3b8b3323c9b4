package iec104

import (
	"bytes"
	"testing"
)

func TestASDU_EncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		asdu  *ASDU
	}{
		{
			name: "single point measurement true",
			asdu: &ASDU{TypeID: MSpNa1, COT: CotAct, CASDU: 1, IOA: SPWaterInlet, Value: BoolMeasurement(true)},
		},
		{
			name: "single point measurement false",
			asdu: &ASDU{TypeID: MSpNa1, COT: CotAct, CASDU: 1, IOA: SPWaterInlet, Value: BoolMeasurement(false)},
		},
		{
			name: "float measurement",
			asdu: &ASDU{TypeID: MMeNc1, COT: CotAct, CASDU: 1, IOA: AnaBearingTemp, Value: Float32Measurement(15.5)},
		},
		{
			name: "single command",
			asdu: &ASDU{TypeID: CScNa1, COT: CotActCon, CASDU: 1, IOA: CmdWaterInlet, Value: BoolMeasurement(true)},
		},
		{
			name: "setpoint command",
			asdu: &ASDU{TypeID: CSeNc1, COT: CotActCon, CASDU: 1, IOA: 15010, Value: Float32Measurement(123.45)},
		},
		{
			name: "general interrogation",
			asdu: &ASDU{TypeID: CIcNa1, COT: CotAct, CASDU: 1, IOA: 0, Value: Measurement{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.asdu.Encode()
			got, err := DecodeASDU(encoded)
			if err != nil {
				t.Fatalf("DecodeASDU() error = %v", err)
			}
			if got.TypeID != tt.asdu.TypeID || got.COT != tt.asdu.COT || got.CASDU != tt.asdu.CASDU || got.IOA != tt.asdu.IOA {
				t.Errorf("DecodeASDU() = %+v, want %+v", got, tt.asdu)
			}
			if got.Value != tt.asdu.Value {
				t.Errorf("DecodeASDU() value = %+v, want %+v", got.Value, tt.asdu.Value)
			}
		})
	}
}

func TestDecodeASDU_Truncated(t *testing.T) {
	_, err := DecodeASDU([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error on truncated asdu")
	}
}

func TestDecodeASDU_UnknownType(t *testing.T) {
	asdu := &ASDU{TypeID: 255, COT: CotAct, CASDU: 1, IOA: 1100}
	encoded := asdu.Encode()
	got, err := DecodeASDU(encoded)
	if err == nil {
		t.Fatal("expected ErrUnknownType")
	}
	if got.TypeID != 255 || got.IOA != 1100 {
		t.Errorf("partial asdu on error path = %+v", got)
	}
}

func TestAPDU_FramePrefix(t *testing.T) {
	asdu := &ASDU{TypeID: MSpNa1, COT: CotAct, CASDU: 1, IOA: SPWaterInlet, Value: BoolMeasurement(true)}
	frame := EncodeIFrame(0, 0, asdu)
	if frame[0] != startByte {
		t.Errorf("frame[0] = 0x%02X, want 0x68", frame[0])
	}
	if int(frame[1]) != len(frame)-2 {
		t.Errorf("frame[1] = %d, want %d", frame[1], len(frame)-2)
	}
}

func TestAPDU_EncodeDecode_UFrame(t *testing.T) {
	frame := EncodeUFrame(UFrameFunctionStartDTA)
	want := []byte{startByte, 0x04, 0x07, 0x00, 0x00, 0x00}
	if !bytes.Equal(frame, want) {
		t.Errorf("EncodeUFrame(StartDTA) = % X, want % X", frame, want)
	}

	apdu, err := DecodeAPDU(frame)
	if err != nil {
		t.Fatalf("DecodeAPDU() error = %v", err)
	}
	u, ok := apdu.Frame.(*UFrame)
	if !ok {
		t.Fatalf("DecodeAPDU() frame type = %T, want *UFrame", apdu.Frame)
	}
	if ufuncOf(u) != UFrameFunctionStartDTA[0] {
		t.Errorf("decoded u-frame function = 0x%02X, want 0x%02X", ufuncOf(u), UFrameFunctionStartDTA[0])
	}
}

func TestDecodeAPDU_BadStart(t *testing.T) {
	_, err := DecodeAPDU([]byte{0x00, 0x04, 0, 0, 0, 0})
	if err != ErrBadStart {
		t.Errorf("DecodeAPDU() error = %v, want ErrBadStart", err)
	}
}
