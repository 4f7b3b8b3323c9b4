package main

import (
	"github.com/sirupsen/logrus"

	iec104 "github.com/feirik/iec104hydro"
)

const serverAddress = "127.0.0.1:2404"

// main is a thin, non-interactive demonstration of the Session API
// (§6); the interactive shell and HMI that drive this client in the
// original system are out of scope (§1).
func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	iec104.SetLogger(logger)

	session, err := iec104.Connect(serverAddress, iec104.DefaultClientConfig())
	if err != nil {
		logger.Fatalf("connect: %v", err)
	}
	defer session.Close()

	if _, err := session.WriteSingle(iec104.CmdWaterInlet, true); err != nil {
		logger.Errorf("write_single: %v", err)
	}

	snapshot, err := session.RequestData()
	if err != nil {
		logger.Fatalf("request_data: %v", err)
	}
	for ioa, v := range snapshot {
		if v.Kind == iec104.KindBool {
			logger.Infof("ioa %d = %v", ioa, v.Bool)
		} else {
			logger.Infof("ioa %d = %v", ioa, v.Float32)
		}
	}
}
