package iec104

import "fmt"

// Sentinel errors for the codec and link-state paths.
// Checked with errors.Is by callers, in the same spirit as the
// predicate helpers below but without a manual type assertion for the
// cases that carry no extra data.
var (
	ErrBadStart    = fmt.Errorf("iec104: frame does not start with 0x%02X", startByte)
	ErrTruncated   = fmt.Errorf("iec104: truncated frame")
	ErrUnknownType = fmt.Errorf("iec104: unknown or unsupported type id")
	ErrNotStarted  = fmt.Errorf("iec104: link is not in STARTED state")
	ErrTimeout     = fmt.Errorf("iec104: timed out waiting for response")
)

// UnknownIoaError is returned by the registry when a command or read
// references an IOA that was never registered. The dispatcher replies
// with COT=47 (CotUnObjAddr) on this error.
type UnknownIoaError struct {
	IOA IOA
}

func (e *UnknownIoaError) Error() string {
	return fmt.Sprintf("iec104: unknown ioa %d", e.IOA)
}

// TypeMismatchError is returned when a write targets a registered IOA
// whose declared TypeID differs from the incoming frame's TypeID.
type TypeMismatchError struct {
	IOA  IOA
	Want TypeID
	Got  TypeID
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("iec104: ioa %d declared type %d, got %d", e.IOA, e.Want, e.Got)
}

func IsUnknownIoa(err error) bool {
	_, ok := err.(*UnknownIoaError)
	return ok
}

func IsTypeMismatch(err error) bool {
	_, ok := err.(*TypeMismatchError)
	return ok
}
