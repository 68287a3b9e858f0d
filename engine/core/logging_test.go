package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":        InfoLevel,
		"debug":   DebugLevel,
		" INFO ":  InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.ErrorContains(t, err, "verbose")
}

func TestEventCodeString(t *testing.T) {
	assert.Equal(t, "ApplicationQuit", EVENT_CODE_APPLICATION_QUIT.String())
	assert.Equal(t, "ScaleFactorChanged", EVENT_CODE_SCALE_FACTOR_CHANGED.String())
	assert.Equal(t, "ConfigReloaded", EVENT_CODE_CONFIG_RELOADED.String())
	assert.Equal(t, "EventCode(200)", EventCode(200).String())
}

func TestWindowEventConstructors(t *testing.T) {
	ev := NewResizedEvent(NewLogicalSize(640, 480))
	assert.Equal(t, EVENT_CODE_RESIZED, ev.Type)
	assert.Equal(t, NewLogicalSize(640, 480), ev.Data.(*WindowEvent).Size)

	ev = NewScaleFactorChangedEvent(1.5)
	assert.Equal(t, EVENT_CODE_SCALE_FACTOR_CHANGED, ev.Type)
	assert.Equal(t, 1.5, ev.Data.(*WindowEvent).ScaleFactor)

	assert.Nil(t, NewCloseRequestedEvent().Data)
}
