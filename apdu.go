package iec104

import "fmt"

/*
APDU (Application Protocol Data Unit): the APCI control field plus,
for I-format frames, the single ASDU it carries.

  | <-   8 bits    -> |  -----    -----
  | Start Byte (0x68) |    |        |
  | Length of APDU    |    |        |
  | Control Field 1   |   APCI     APDU
  | Control Field 2   |    |        |
  | Control Field 3   |    |        |
  | Control Field 4   |    |        |
  | ASDU (I-format)   |   ASDU      |
  | <-   8 bits    -> |  -----    -----
*/
type APDU struct {
	Frame Frame
	ASDU  *ASDU
}

// minAPDULen is the shortest legal APDU body: a U- or S-format control
// field with no ASDU.
const minAPDULen = 4

// DecodeAPDU parses a full frame starting at the 0x68 start byte.
// data must contain exactly one frame (start byte, length byte, and
// `length` bytes of body) with nothing trailing.
func DecodeAPDU(data []byte) (*APDU, error) {
	if len(data) < 2 {
		return nil, ErrTruncated
	}
	if data[0] != startByte {
		return nil, ErrBadStart
	}
	length := int(data[1])
	if len(data) < 2+length {
		return nil, ErrTruncated
	}
	body := data[2 : 2+length]
	if length < minAPDULen {
		return nil, fmt.Errorf("iec104: apdu length %d shorter than control field: %w", length, ErrTruncated)
	}

	apci := &APCI{}
	frame, err := apci.Parse(body[:4])
	if err != nil {
		return nil, err
	}

	apdu := &APDU{Frame: frame}
	if frame.Type() == FrameTypeI {
		asdu, err := DecodeASDU(body[4:])
		if err != nil {
			return apdu, err
		}
		apdu.ASDU = asdu
	}
	return apdu, nil
}

// Encode serializes the APDU to wire bytes, including the leading
// start byte and length byte.
func (a *APDU) Encode() []byte {
	body := a.Frame.Data()
	if a.ASDU != nil {
		body = append(append([]byte{}, body...), a.ASDU.Encode()...)
	}
	out := make([]byte, 0, 2+len(body))
	out = append(out, startByte, byte(len(body)))
	out = append(out, body...)
	return out
}

// EncodeIFrame builds a complete I-format APDU carrying asdu.
func EncodeIFrame(sendSN, recvSN uint16, asdu *ASDU) []byte {
	apdu := &APDU{
		Frame: &IFrame{SendSN: sendSN, RecvSN: recvSN},
		ASDU:  asdu,
	}
	return apdu.Encode()
}

// EncodeUFrame builds a complete U-format APDU for one of the
// UFrameFunctionXxx constants.
func EncodeUFrame(fn UFrameFunction) []byte {
	apdu := &APDU{Frame: &UFrame{Cmd: fn}}
	return apdu.Encode()
}
