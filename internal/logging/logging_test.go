package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	closer := Setup(Options{Level: "debug", Format: "json", File: path})
	log.Debug().Str("venue", "GMX").Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"venue":"GMX"`) || !strings.Contains(string(data), `"message":"hello"`) {
		t.Fatalf("unexpected log output: %s", data)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("global level = %s", zerolog.GlobalLevel())
	}
}

func TestSetupFallsBackToInfo(t *testing.T) {
	closer := Setup(Options{Level: "nonsense"})
	defer closer.Close()

	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", zerolog.GlobalLevel())
	}
}

func TestSetupWithoutFileClosesCleanly(t *testing.T) {
	closer := Setup(Options{Level: "info", Format: "json"})

	if _, ok := closer.(nopCloser); !ok {
		t.Fatalf("closer = %T, want nopCloser", closer)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
