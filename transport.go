package iec104

import "io"

// readFrame reads exactly one APDU's raw wire bytes (start byte,
// length byte, and its body) from r, blocking until the whole frame
// has arrived. Shared by the client and server read loops so both
// honor the same framing rules (§4.1).
func readFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if header[0] != startByte {
		return nil, ErrBadStart
	}
	length := int(header[1])
	raw := make([]byte, 2+length)
	copy(raw, header)
	if length > 0 {
		if _, err := io.ReadFull(r, raw[2:]); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// ufuncOf reports which UFrameFunctionXxx constant matches a
// decoded U-frame, identified by its CF1 byte alone (CF2-4 are always
// zero for the six functions this system knows).
func ufuncOf(u *UFrame) byte {
	if len(u.Cmd) == 0 {
		return 0
	}
	return u.Cmd[0]
}
