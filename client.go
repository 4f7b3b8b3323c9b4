package iec104

import (
	"errors"
	"fmt"
	"net"
	"time"
)

/*
Session is the client/controlling-station core (C6, §4.6): connect,
handshake, issue single/setpoint commands or a general interrogation,
and collect the response into a snapshot map. Grounded on
Yobol-go-iec104's Client (client.go), but replaces its
goroutine+channel core with the single-threaded blocking socket I/O
§5 calls for; its panic("implement me") sendIFrame stub becomes a real
method below. There is no S-frame sender and no IsConnected method.
*/
type Session struct {
	conn net.Conn
	link *linkState
	cfg  ClientConfig
}

// Connect opens a TCP connection to address, sends STARTDT_ACT, and
// waits up to cfg.ConnectTimeout for STARTDT_CON (§4.6).
func Connect(address string, cfg ClientConfig) (*Session, error) {
	cfg = cfg.Valid()

	conn, err := net.DialTimeout("tcp", address, cfg.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("iec104: dial %s: %w", address, err)
	}
	s := &Session{conn: conn, link: newLinkState(), cfg: cfg}

	if _, err := conn.Write(EncodeUFrame(UFrameFunctionStartDTA)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("iec104: send startdt: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(cfg.ConnectTimeout))
	apdu, err := s.readAPDU()
	conn.SetReadDeadline(time.Time{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("iec104: waiting for startdt confirmation: %w", err)
	}
	u, ok := apdu.Frame.(*UFrame)
	if !ok || ufuncOf(u) != UFrameFunctionStartDTC[0] {
		conn.Close()
		return nil, errors.New("iec104: handshake: expected startdt confirmation")
	}

	s.link.set(LinkStarted)
	return s, nil
}

func (s *Session) readAPDU() (*APDU, error) {
	raw, err := readFrame(s.conn)
	if err != nil {
		return nil, err
	}
	return DecodeAPDU(raw)
}

func (s *Session) sendIFrame(asdu *ASDU) error {
	sendSN := s.link.nextSend()
	recvSN := s.link.currentRecv()
	_, err := s.conn.Write(EncodeIFrame(sendSN, recvSN, asdu))
	return err
}

// WriteSingle sends a C_SC_NA_1 command (§4.6) and reports whether the
// reply confirmed it (TypeID 45, COT 7).
func (s *Session) WriteSingle(ioa IOA, value bool) (bool, error) {
	if s.link.get() != LinkStarted {
		return false, ErrNotStarted
	}
	asdu := &ASDU{TypeID: CScNa1, COT: CotAct, CASDU: 1, IOA: ioa, Value: BoolMeasurement(value)}
	if err := s.sendIFrame(asdu); err != nil {
		return false, err
	}
	reply, err := s.readAPDU()
	if err != nil {
		return false, err
	}
	if reply.ASDU == nil {
		return false, errors.New("iec104: expected i-frame reply to single command")
	}
	s.link.observeRecv()
	return reply.ASDU.TypeID == CScNa1 && reply.ASDU.COT == CotActCon, nil
}

// WriteSetpoint is WriteSingle's C_SE_NC_1 counterpart.
func (s *Session) WriteSetpoint(ioa IOA, value float32) (bool, error) {
	if s.link.get() != LinkStarted {
		return false, ErrNotStarted
	}
	asdu := &ASDU{TypeID: CSeNc1, COT: CotAct, CASDU: 1, IOA: ioa, Value: Float32Measurement(value)}
	if err := s.sendIFrame(asdu); err != nil {
		return false, err
	}
	reply, err := s.readAPDU()
	if err != nil {
		return false, err
	}
	if reply.ASDU == nil {
		return false, errors.New("iec104: expected i-frame reply to setpoint command")
	}
	s.link.observeRecv()
	return reply.ASDU.TypeID == CSeNc1 && reply.ASDU.COT == CotActCon, nil
}

// RequestData issues a general interrogation and aggregates every
// response ASDU into an IOA->Measurement snapshot, stopping once
// cfg.QuiescenceTimeout passes with no further frames (§4.6). It
// returns ErrTimeout if nothing at all arrived.
func (s *Session) RequestData() (map[IOA]Measurement, error) {
	if s.link.get() != LinkStarted {
		return nil, ErrNotStarted
	}
	asdu := &ASDU{TypeID: CIcNa1, COT: CotAct, CASDU: 1, IOA: 0, Value: Measurement{}}
	if err := s.sendIFrame(asdu); err != nil {
		return nil, err
	}

	result := make(map[IOA]Measurement)
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.QuiescenceTimeout))
		reply, err := s.readAPDU()
		s.conn.SetReadDeadline(time.Time{})
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				break
			}
			return nil, err
		}
		if reply.ASDU != nil {
			s.link.observeRecv()
			result[reply.ASDU.IOA] = reply.ASDU.Value
		}
	}

	if len(result) == 0 {
		return nil, ErrTimeout
	}
	return result, nil
}

// Close sends STOPDT_ACT, waits briefly for STOPDT_CON, and closes the
// socket. The wait is best-effort: a timeout or I/O error here does
// not prevent the socket from being closed.
func (s *Session) Close() error {
	s.conn.Write(EncodeUFrame(UFrameFunctionStopDTA))
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ConnectTimeout))
	s.readAPDU()
	s.link.set(LinkStopped)
	return s.conn.Close()
}
