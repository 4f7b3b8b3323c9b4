package iec104

import (
	"context"
	"testing"
	"time"
)

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()
	registry := NewRegistry()
	sim := NewSimulator(registry)

	server := NewServer("127.0.0.1:0", registry)
	if err := server.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sim.Run(ctx)
	go server.Serve(ctx)

	return server.Addr().String(), cancel
}

func TestIntegration_HandshakeAndInterrogation(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	session, err := Connect(addr, DefaultClientConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer session.Close()

	snapshot, err := session.RequestData()
	if err != nil {
		t.Fatalf("RequestData() error = %v", err)
	}
	if len(snapshot) != 11 {
		t.Fatalf("len(snapshot) = %d, want 11", len(snapshot))
	}
	if snapshot[SPWaterInlet].Bool != false {
		t.Errorf("SPWaterInlet = %v, want false", snapshot[SPWaterInlet].Bool)
	}
	if snapshot[AnaBearingTemp].Float32 != temperatureEnv {
		t.Errorf("AnaBearingTemp = %v, want %v", snapshot[AnaBearingTemp].Float32, temperatureEnv)
	}
}

// TestIntegration_WriteSingleMirrorsToMeasurement is scenario S1: write
// a command, then see its mirrored measurement on interrogation.
func TestIntegration_WriteSingleMirrorsToMeasurement(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	session, err := Connect(addr, DefaultClientConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer session.Close()

	ok, err := session.WriteSingle(CmdWaterInlet, true)
	if err != nil {
		t.Fatalf("WriteSingle() error = %v", err)
	}
	if !ok {
		t.Fatal("WriteSingle() = false, want true (activation confirmation)")
	}

	snapshot, err := session.RequestData()
	if err != nil {
		t.Fatalf("RequestData() error = %v", err)
	}
	if !snapshot[SPWaterInlet].Bool {
		t.Error("SPWaterInlet not mirrored to true after write_single")
	}
}

func TestIntegration_WriteSingleUnknownIoa(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	session, err := Connect(addr, DefaultClientConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer session.Close()

	ok, err := session.WriteSingle(99999, true)
	if err != nil {
		t.Fatalf("WriteSingle() error = %v", err)
	}
	if ok {
		t.Fatal("WriteSingle() on unknown ioa = true, want false (COT=47)")
	}
}

// TestIntegration_TwoInterrogationsObserveChange is scenario S6.
func TestIntegration_TwoInterrogationsObserveChange(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	session, err := Connect(addr, DefaultClientConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer session.Close()

	first, err := session.RequestData()
	if err != nil {
		t.Fatalf("first RequestData() error = %v", err)
	}
	if first[SPExciteSwitch].Bool {
		t.Fatal("SPExciteSwitch should start false")
	}

	if _, err := session.WriteSingle(CmdExciteSwitch, true); err != nil {
		t.Fatalf("WriteSingle() error = %v", err)
	}

	second, err := session.RequestData()
	if err != nil {
		t.Fatalf("second RequestData() error = %v", err)
	}
	if !second[SPExciteSwitch].Bool {
		t.Fatal("SPExciteSwitch should be true after write_single")
	}
}

func TestSession_Connect_ClosedPortFails(t *testing.T) {
	cfg := ClientConfig{ConnectTimeout: ConnectTimeoutMin, QuiescenceTimeout: 100 * time.Millisecond}
	if _, err := Connect("127.0.0.1:1", cfg.Valid()); err == nil {
		t.Fatal("Connect() to a closed port should fail")
	}
}
