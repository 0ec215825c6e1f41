package ggstage

import (
	"testing"

	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/viewport"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Width != 1000 || s.Rendering != "crisp-edges" {
		t.Errorf("DefaultSettings() = %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"defaults", DefaultSettings(), false},
		{"pixelated", Settings{Width: 320, Rendering: "pixelated"}, false},
		{"zero width", Settings{Width: 0, Rendering: "pixelated"}, true},
		{"bad rendering", Settings{Width: 10, Rendering: "blurry"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithSettings(t *testing.T) {
	host := viewport.NewStaticHost(400, 300, 1)
	startStage(t, host, WithSettings(Settings{Width: 320, Rendering: "pixelated"}))
	if host.Style().Rendering != canvas.Pixelated {
		t.Errorf("rendering = %v, want pixelated", host.Style().Rendering)
	}
	w, h := host.Canvas().Size()
	if w != 320 || h != 240 {
		t.Errorf("buffer = %dx%d, want 320x240", w, h)
	}
}
