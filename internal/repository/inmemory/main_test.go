package inmemory_test

import (
	"os"
	"testing"

	"orgBoard/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}
