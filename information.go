package iec104

/*
IOA (Information Object Address) identifies a point within a station.
Its wire length is 3 bytes for IEC 104, little-endian, conceptually
spanning [0, 2^24). Grounded on Yobol-go-iec104's
InformationObject.parseIOA/serializeIOA (asdu_information_object.go),
trimmed to exactly the 3-byte case this system needs (no SQ=0 runs of
consecutive addresses).
*/
type IOA uint32

// IOALength is the wire length of an Information Object Address.
const IOALength = 3

func parseIOA(data []byte) IOA {
	return IOA(uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16)
}

func serializeIOA(ioa IOA) []byte {
	return []byte{byte(ioa), byte(ioa >> 8), byte(ioa >> 16)}
}

// MeasurementKind discriminates the two value shapes this system
// transmits. Per Design Note §9, a Measurement is a tagged variant,
// never a generic dynamic value — the Python original's flat
// ioa_register array is explicitly not the model here.
type MeasurementKind int

const (
	KindBool MeasurementKind = iota
	KindFloat32
)

// Measurement is a tagged Bool/Float32 variant. Build one with
// BoolMeasurement or Float32Measurement rather than the struct literal,
// so the Kind tag and the populated field always agree.
type Measurement struct {
	Kind    MeasurementKind
	Bool    bool
	Float32 float32
}

func BoolMeasurement(b bool) Measurement {
	return Measurement{Kind: KindBool, Bool: b}
}

func Float32Measurement(f float32) Measurement {
	return Measurement{Kind: KindFloat32, Float32: f}
}

// IsBoolType reports whether typeID carries a Bool measurement
// (M_SP_NA_1 or C_SC_NA_1).
func IsBoolType(typeID TypeID) bool {
	return typeID == MSpNa1 || typeID == CScNa1
}

// IsFloatType reports whether typeID carries a Float32 measurement
// (M_ME_NC_1 or C_SE_NC_1).
func IsFloatType(typeID TypeID) bool {
	return typeID == MMeNc1 || typeID == CSeNc1
}

// encodeInformationElement builds the TypeID-dependent payload that
// follows the IOA, per the table in §4.1.
func encodeInformationElement(typeID TypeID, v Measurement) []byte {
	switch typeID {
	case MSpNa1, CScNa1:
		if v.Bool {
			return []byte{0x01}
		}
		return []byte{0x00}
	case MMeNc1:
		return append(serializeFloat32(v.Float32), qdsGood)
	case CSeNc1:
		return append(serializeFloat32(v.Float32), qosDefault)
	case CIcNa1:
		return []byte{QOIStationInterrogation}
	default:
		return nil
	}
}

// decodeInformationElement parses the TypeID-dependent payload that
// follows the IOA. Returns ErrUnknownType for any TypeID outside the
// five this codec knows about.
func decodeInformationElement(typeID TypeID, data []byte) (Measurement, error) {
	switch typeID {
	case MSpNa1, CScNa1:
		if len(data) < 1 {
			return Measurement{}, ErrTruncated
		}
		return BoolMeasurement(data[0]&0x01 == 0x01), nil
	case MMeNc1, CSeNc1:
		if len(data) < 5 {
			return Measurement{}, ErrTruncated
		}
		return Float32Measurement(parseFloat32(data[:4])), nil
	case CIcNa1:
		if len(data) < 1 {
			return Measurement{}, ErrTruncated
		}
		return Measurement{}, nil
	default:
		return Measurement{}, ErrUnknownType
	}
}
