package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewWritesPrefixedLines(t *testing.T) {
	var out bytes.Buffer
	l := New(&out)
	l.SetLevel(logrus.DebugLevel)

	l.WithField("pool", "misc").Debug("grow")
	require.Contains(t, out.String(), "grow")
	require.Contains(t, out.String(), "pool=misc")
}

func TestDiscardDropsEverything(t *testing.T) {
	l := Discard()
	require.Equal(t, logrus.PanicLevel, l.GetLevel())
	l.Error("nothing")
}
