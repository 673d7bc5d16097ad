package core

// WindowConfig describes the window a frontend should open.
type WindowConfig struct {
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	Title      string `yaml:"title" json:"title"`
	Resizable  bool   `yaml:"resizable" json:"resizable"`
	VSync      bool   `yaml:"vsync" json:"vsync"`
	Fullscreen bool   `yaml:"fullscreen" json:"fullscreen"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:      1280,
		Height:     720,
		Title:      "sgengine",
		Resizable:  true,
		VSync:      true,
		Fullscreen: false,
	}
}
