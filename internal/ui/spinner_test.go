package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestSpinnerStopWithMsgClearsLineAndPrints(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	s := NewSpinner(&buf, "Loading dapp builder...")
	s.Start()
	s.StopWithMsg("done")

	out := buf.String()
	assert.Contains(t, out, "Loading dapp builder...")
	assert.True(t, strings.HasSuffix(out, "\rdone\n"), out)
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "idle")
	s.StopWithMsg("finished")
	s.Stop()

	assert.Equal(t, "finished\n", buf.String())
}
