package identity

import (
	"os"
	"testing"

	"github.com/op/go-logging"

	"github.com/relayforge/gateway-console/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "gwc-test-logs")
	if err == nil {
		os.Setenv("GWC_LOG_FOLDER", dir)
	}
	logger.InitLogger(logging.ERROR)
	code := m.Run()
	logger.CloseLogger()
	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}
