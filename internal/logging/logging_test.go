package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactingHandler(t *testing.T) {
	var buf bytes.Buffer
	secrets := &Secrets{}
	logger := New(&buf, slog.LevelDebug, secrets)

	// секрет, добавленный после создания логгера, тоже скрывается
	secrets.Add("hunter2")
	secrets.Add("")

	logger.With("preset", "pw=hunter2").Info("login with hunter2",
		"password", "hunter2",
		"error", errors.New("bad password hunter2"),
		slog.Group("request", "body", `{"password":"hunter2"}`),
		"count", 3,
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "login with "+Mask)
	assert.Contains(t, out, "password="+Mask)
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, `preset="pw=`+Mask+`"`)
}

func TestRedactingHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, nil)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
