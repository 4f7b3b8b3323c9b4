package iec104

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// interrogationDelay is the pause between ASDUs in an interrogation
// burst (§4.4 item 1), so naive clients aren't flooded.
const interrogationDelay = 50 * time.Millisecond

// Server is the IEC 104 controlled station (RTU): it answers the
// handshake, dispatches commands and interrogations against a
// Registry, and lets a Simulator drive that same Registry
// concurrently. Grounded on Yobol-go-iec104's Server/Conn shape
// (server.go), with the TLS listener option dropped (§1 Non-goals:
// no security) and Server.serve's "// TODO" stub replaced by the full
// dispatcher of §4.4.
type Server struct {
	address  string
	registry *Registry

	listener net.Listener
}

// NewServer builds a server bound to address, backed by registry.
// The caller is responsible for constructing the registry (typically
// via NewSimulator, which registers every hydropower point).
func NewServer(address string, registry *Registry) *Server {
	return &Server{address: address, registry: registry}
}

// Listen opens the listening socket, so Addr is available before the
// accept loop (Serve) starts — split out mainly so tests can bind an
// ephemeral port.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.listener = listener
	return nil
}

// Addr returns the bound listen address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until ctx is canceled. Each accepted
// connection is handled on its own goroutine, so the accept loop does
// not block on a slow peer finishing its handshake.
func (s *Server) Serve(ctx context.Context) error {
	_lg.Infof("iec104 server listening on %s", s.listener.Addr())

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleConn(ctx, conn)
	}
}

// ListenAndServe is Listen followed by Serve, for callers that don't
// need the bound address ahead of time.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_lg.Debugf("accepted connection from %s", conn.RemoteAddr())

	link := newLinkState()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raw, err := readFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				_lg.Errorf("read frame from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
		apdu, err := DecodeAPDU(raw)
		if err != nil {
			_lg.Warnf("bad frame from %s: %v", conn.RemoteAddr(), err)
			continue
		}

		if err := s.handleFrame(conn, link, apdu); err != nil {
			_lg.Errorf("handle frame from %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) handleFrame(conn net.Conn, link *linkState, apdu *APDU) error {
	switch apdu.Frame.Type() {
	case FrameTypeU:
		return s.handleUFrame(conn, link, apdu.Frame.(*UFrame))
	case FrameTypeS:
		return nil // accepted silently, §4.1
	case FrameTypeI:
		if link.get() != LinkStarted {
			return ErrNotStarted
		}
		link.observeRecv()
		return s.handleASDU(conn, link, apdu.ASDU)
	default:
		return nil
	}
}

func (s *Server) handleUFrame(conn net.Conn, link *linkState, u *UFrame) error {
	switch ufuncOf(u) {
	case UFrameFunctionStartDTA[0]:
		link.set(LinkStarted)
		_, err := conn.Write(EncodeUFrame(UFrameFunctionStartDTC))
		return err
	case UFrameFunctionStopDTA[0]:
		link.set(LinkStopped)
		_, err := conn.Write(EncodeUFrame(UFrameFunctionStopDTC))
		return err
	case UFrameFunctionTestFA[0]:
		_, err := conn.Write(EncodeUFrame(UFrameFunctionTestFC))
		return err
	default:
		return nil
	}
}

func (s *Server) handleASDU(conn net.Conn, link *linkState, asdu *ASDU) error {
	switch asdu.TypeID {
	case CIcNa1:
		return s.handleInterrogation(conn, link, asdu)
	case CScNa1:
		return s.handleCommand(conn, link, asdu)
	case CSeNc1:
		return s.handleSetpoint(conn, link, asdu)
	default:
		_lg.Debugf("ignoring asdu with type id %d", asdu.TypeID)
		return nil
	}
}

// handleInterrogation answers a general interrogation (TypeID 100)
// with one I-frame per registered measurement point, Bool IOAs
// ascending then Float IOAs ascending (§4.4 item 1, §8 property 6).
func (s *Server) handleInterrogation(conn net.Conn, link *linkState, asdu *ASDU) error {
	for _, snap := range s.registry.Snapshot() {
		reply := &ASDU{TypeID: snap.TypeID, COT: CotAct, CASDU: asdu.CASDU, IOA: snap.IOA, Value: snap.Value}
		if err := s.sendIFrame(conn, link, reply); err != nil {
			return err
		}
		time.Sleep(interrogationDelay)
	}
	return nil
}

// handleCommand applies a single (boolean) command (§4.4 item 2):
// write the command point, mirror it into the matching measurement
// IOA, and reply with COT=7 (confirmation) or COT=47 (unknown IOA).
func (s *Server) handleCommand(conn net.Conn, link *linkState, asdu *ASDU) error {
	cot := CotActCon
	if err := s.registry.WriteCommand(asdu.IOA, CScNa1, asdu.Value); err != nil {
		_lg.Warnf("single command to unknown ioa %d", asdu.IOA)
		cot = CotUnObjAddr
	} else {
		s.registry.WriteMeasurement(asdu.IOA-SetPointOffset, asdu.Value)
	}
	reply := &ASDU{TypeID: asdu.TypeID, COT: cot, CASDU: asdu.CASDU, IOA: asdu.IOA, Value: asdu.Value}
	return s.sendIFrame(conn, link, reply)
}

// handleSetpoint is handleCommand's float counterpart (§4.4 item 3).
func (s *Server) handleSetpoint(conn net.Conn, link *linkState, asdu *ASDU) error {
	cot := CotActCon
	if err := s.registry.WriteCommand(asdu.IOA, CSeNc1, asdu.Value); err != nil {
		_lg.Warnf("setpoint command to unknown ioa %d", asdu.IOA)
		cot = CotUnObjAddr
	} else {
		s.registry.WriteMeasurement(asdu.IOA-SetPointOffset, asdu.Value)
	}
	reply := &ASDU{TypeID: asdu.TypeID, COT: cot, CASDU: asdu.CASDU, IOA: asdu.IOA, Value: asdu.Value}
	return s.sendIFrame(conn, link, reply)
}

func (s *Server) sendIFrame(conn net.Conn, link *linkState, asdu *ASDU) error {
	sendSN := link.nextSend()
	recvSN := link.currentRecv()
	_, err := conn.Write(EncodeIFrame(sendSN, recvSN, asdu))
	return err
}
