package server

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Disable rate limiting for handler tests.
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}
