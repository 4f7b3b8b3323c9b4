package iec104

import "fmt"

/*
ASDU (Application Service Data Unit).

This system fixes the ASDU to a single information object per ASDU
(VSQ=0x01) and a 6-byte data unit identifier:

 byte  field
 0     TypeID
 1     VSQ        = 0x01
 2     COT        (one byte; this system does not separate the T/PN
                    test and positive/negative bits the general IEC 101
                    encoding reserves in this byte — COT values never
                    exceed 47 here)
 3     0x00       (COT high / originator, always zero — single
                    controlling station, no originator addressing)
 4-5   CASDU      little-endian u16
 6-8   IOA        little-endian u24
 9..   information element(s), TypeID-dependent (see information.go)

This trims the teacher's general SQ/multi-object/T/PN machinery (asdu.go
in Yobol-go-iec104 models the full IEC 101 data unit identifier) down to
the fixed layout this spec's Open Question resolved to.
*/
type ASDU struct {
	TypeID TypeID
	COT    COT
	CASDU  uint16
	IOA    IOA
	Value  Measurement
}

// vsq is always 1: exactly one information object per ASDU.
const vsq = 0x01

// AsduHeaderLen is the 6-byte data unit identifier plus the 3-byte IOA.
const AsduHeaderLen = 9

// DecodeASDU parses the payload of an I-format frame (the bytes after
// the 4-byte control field). On an unrecognized TypeID it still
// returns the partially-populated ASDU (TypeID, COT, CASDU, IOA) along
// with ErrUnknownType, so callers on the error path can still reply
// with the right COT/IOA.
func DecodeASDU(data []byte) (*ASDU, error) {
	if len(data) < AsduHeaderLen {
		return nil, fmt.Errorf("iec104: asdu header: %w", ErrTruncated)
	}
	asdu := &ASDU{
		TypeID: TypeID(data[0]),
		COT:    COT(data[2]),
		CASDU:  parseLittleEndianUint16(data[4:6]),
		IOA:    parseIOA(data[6:9]),
	}
	value, err := decodeInformationElement(asdu.TypeID, data[AsduHeaderLen:])
	if err != nil {
		return asdu, err
	}
	asdu.Value = value
	return asdu, nil
}

// Encode serializes the ASDU body (no APCI, no start byte/length).
func (a *ASDU) Encode() []byte {
	data := make([]byte, 0, AsduHeaderLen+5)
	data = append(data, byte(a.TypeID), vsq, byte(a.COT), 0x00)
	data = append(data, serializeLittleEndianUint16(a.CASDU)...)
	data = append(data, serializeIOA(a.IOA)...)
	data = append(data, encodeInformationElement(a.TypeID, a.Value)...)
	return data
}

/*
TypeID (Type Identification, 1 byte) selects the information element
format. This system only builds and fully decodes the five types the
hydropower point map uses; any other value round-trips as TypeID/COT/IOA
only (see DecodeASDU).
*/
type TypeID uint8

const (
	// MSpNa1 is single point information (measurement). [遥信 - 单点]
	MSpNa1 TypeID = 1
	// MMeNc1 is a short floating point measured value + QDS. [遥测 - 短浮点]
	MMeNc1 TypeID = 13
	// CScNa1 is a single command (write). [遥控 - 单点]
	CScNa1 TypeID = 45
	// CSeNc1 is a set-point command carrying a short float. [遥调 - 短浮点]
	CSeNc1 TypeID = 50
	// CIcNa1 is the general interrogation command. [总召唤]
	CIcNa1 TypeID = 100
)

/*
COT (Cause of Transmission) is used to control message routing. Kept
as the full standard table from the teacher's asdu.go for reference,
even though the dispatcher only ever emits a handful of these values.
*/
type COT uint8

const (
	CotPer, CotCyc COT = 1, 1 // periodic, cyclic
	CotBack        COT = 2    // background scan
	CotSpt         COT = 3    // spontaneous
	CotInit        COT = 4    // initialized
	CotReq         COT = 5    // request or requested
	CotAct         COT = 6    // activation
	CotActCon      COT = 7    // activation confirmation
	CotDeact       COT = 8    // deactivation
	CotDeactCon    COT = 9    // deactivation confirmation
	CotActTerm     COT = 10   // activation termination (not emitted by this system)
	CotRetRem      COT = 11   // return information caused by a remote command
	CotRetLoc      COT = 12   // return information caused by a local command
	CotFile        COT = 13   // file transfer
	CotInrogen     COT = 20   // interrogated by general interrogation
	CotUnType      COT = 44   // unknown type
	CotUnCause     COT = 45   // unknown cause
	CotUnAsduAddr  COT = 46   // unknown asdu address
	CotUnObjAddr   COT = 47   // unknown object address
)

// QOIStationInterrogation is the only qualifier of interrogation this
// system issues: station interrogation (global).
const QOIStationInterrogation byte = 0x14

// qdsGood and qosDefault are the fixed quality/qualifier trailers this
// system always emits alongside a float value.
const (
	qdsGood    byte = 0x00
	qosDefault byte = 0x80
)
