package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
		wantErr  bool
	}{
		{input: "DEBUG", expected: logrus.TraceLevel},
		{input: "spam", expected: logrus.TraceLevel},
		{input: "verbose", expected: logrus.DebugLevel},
		{input: "Info", expected: logrus.InfoLevel},
		{input: "", expected: logrus.InfoLevel},
		{input: "notice", expected: logrus.WarnLevel},
		{input: "WARNING", expected: logrus.WarnLevel},
		{input: "error", expected: logrus.ErrorLevel},
		{input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name     string
		debug    bool
		verbose  bool
		explicit string
		expected string
	}{
		{name: "debug wins", debug: true, verbose: true, explicit: "error", expected: "debug"},
		{name: "verbose beats explicit", verbose: true, explicit: "error", expected: "verbose"},
		{name: "explicit beats fallback", explicit: "notice", expected: "notice"},
		{name: "fallback", expected: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ResolveLevel(tt.debug, tt.verbose, tt.explicit, "info"))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	log.WithField("trace_id", "abc").Info("hello")
	log.Debug("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "expected a single JSON line, got %q", buf.String())
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "abc", entry["trace_id"])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.Error(t, err)
}
