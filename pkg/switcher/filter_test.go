package switcher

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMatcher matches when the original pattern text is a substring, so tests
// don't depend on a real regex engine
type fakeMatcher struct {
	substr string
}

func (m fakeMatcher) MatchString(s string) bool {
	return strings.Contains(s, m.substr)
}

type fakeCompiler struct {
	failOn string
}

func (c fakeCompiler) Compile(pattern string) (Matcher, error) {
	if pattern != "" && pattern == c.failOn {
		return nil, fmt.Errorf("bad pattern")
	}
	return fakeMatcher{substr: pattern}, nil
}

func TestFilterEmptyIncludesPassAll(t *testing.T) {
	filter, err := NewDeviceFilter(fakeCompiler{}, PatternSet{})
	require.NoError(t, err)

	devices := []Device{
		{Index: 0, Name: "alsa_output.usb", Description: "USB DAC"},
		{Index: 1, Name: "alsa_output.hdmi", Description: "HDMI Audio"},
		{Index: 2, Name: "bluez_sink.headset", Description: "Headset"},
	}

	for _, dev := range devices {
		assert.True(t, filter.Eligible(dev), "device %s should pass with no patterns", dev.Name)
	}
}

func TestFilterIncludeNameMatch(t *testing.T) {
	filter, err := NewDeviceFilter(fakeCompiler{}, PatternSet{
		IncludeNames: []string{"usb"},
	})
	require.NoError(t, err)

	assert.True(t, filter.Eligible(Device{Name: "alsa_output.usb", Description: "USB DAC"}))
	assert.False(t, filter.Eligible(Device{Name: "alsa_output.hdmi", Description: "HDMI Audio"}))
}

func TestFilterIncludeDescriptionOnlyMatchSuffices(t *testing.T) {
	// description matches even though the name doesn't: still eligible
	filter, err := NewDeviceFilter(fakeCompiler{}, PatternSet{
		IncludeNames:        []string{"no-such-name"},
		IncludeDescriptions: []string{"Headset"},
	})
	require.NoError(t, err)

	assert.True(t, filter.Eligible(Device{Name: "bluez_sink.xyz", Description: "Bluetooth Headset"}))
	assert.False(t, filter.Eligible(Device{Name: "alsa_output.hdmi", Description: "HDMI Audio"}))
}

func TestFilterExcludeWinsOverInclude(t *testing.T) {
	tests := []struct {
		name string
		set  PatternSet
		dev  Device
	}{
		{
			name: "exclude name beats include name",
			set: PatternSet{
				IncludeNames: []string{"usb"},
				ExcludeNames: []string{"usb"},
			},
			dev: Device{Name: "alsa_output.usb", Description: "USB DAC"},
		},
		{
			name: "exclude description beats include name",
			set: PatternSet{
				IncludeNames:        []string{"hdmi"},
				ExcludeDescriptions: []string{"HDMI"},
			},
			dev: Device{Name: "alsa_output.hdmi", Description: "HDMI Audio"},
		},
		{
			name: "exclude applies with empty includes",
			set: PatternSet{
				ExcludeNames: []string{"hdmi"},
			},
			dev: Device{Name: "alsa_output.hdmi", Description: "HDMI Audio"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewDeviceFilter(fakeCompiler{}, tt.set)
			require.NoError(t, err)
			assert.False(t, filter.Eligible(tt.dev))
		})
	}
}

func TestFilterInvalidPatternFailsEagerly(t *testing.T) {
	// the bad pattern is reported from NewDeviceFilter, before any device
	// gets evaluated, no matter which list it sits in
	sets := []PatternSet{
		{IncludeNames: []string{"ok", "boom"}},
		{IncludeDescriptions: []string{"boom"}},
		{ExcludeNames: []string{"boom"}},
		{ExcludeDescriptions: []string{"boom"}},
	}

	for _, set := range sets {
		filter, err := NewDeviceFilter(fakeCompiler{failOn: "boom"}, set)
		require.Error(t, err)
		assert.Nil(t, filter)
		assert.Contains(t, err.Error(), `"boom"`)
	}
}

func TestRegexpCompiler(t *testing.T) {
	c := RegexpCompiler{}

	m, err := c.Compile("usb")
	require.NoError(t, err)
	// substring semantics, not anchored
	assert.True(t, m.MatchString("alsa_output.usb-dac.analog-stereo"))

	m, err = c.Compile("(?i)headset")
	require.NoError(t, err)
	// inline flags are part of the pattern syntax
	assert.True(t, m.MatchString("Bluetooth HEADSET"))

	_, err = c.Compile("[unclosed")
	assert.Error(t, err)
}
