package handlers

import (
	"context"
	"reflect"
	"testing"
)

const sampleProfilerOutput = `Audio:

    Devices:

        MacBook Pro Microphone:

          Default Input Device: Yes
          Input Channels: 1
          Manufacturer: Apple Inc.
          Current SampleRate: 48000

        MacBook Pro Speakers:

          Default Output Device: Yes
          Default System Output Device: Yes
          Manufacturer: Apple Inc.
          Output Channels: 2
          Current SampleRate: 48000

        External Headphones:

          Manufacturer: Apple Inc.
          Output Channels: 2
          Current SampleRate: 48000
`

func TestParseAudioDevices(t *testing.T) {
	got := parseAudioDevices(sampleProfilerOutput)
	want := []string{"MacBook Pro Speakers", "External Headphones"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseAudioDevices = %v, want %v", got, want)
	}
}

func TestParseAudioDevicesEmpty(t *testing.T) {
	if got := parseAudioDevices(""); len(got) != 0 {
		t.Errorf("expected no devices, got %v", got)
	}
}

func TestAudioDeviceDeclinesUnrelated(t *testing.T) {
	h := NewAudioDevice()
	res, err := h.TryHandle(context.Background(), "play some jazz")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res != nil {
		t.Fatalf("expected decline, got %+v", res)
	}
}

func TestAudioDeviceSwitchWithoutTarget(t *testing.T) {
	h := NewAudioDevice()
	res, err := h.TryHandle(context.Background(), "switch audio to")
	if err != nil {
		t.Fatalf("TryHandle: %v", err)
	}
	if res == nil || res.SpokenResponse != "Which audio device should I switch to?" {
		t.Fatalf("unexpected response %+v", res)
	}
}
