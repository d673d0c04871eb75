package config

const (
	defaultDataDir      = "~/.local/share/driller"
	defaultLogDir       = "~/.local/share/driller/logs"
	defaultFramesInView = 120
	defaultBarWidth     = 8
	defaultHeight       = 100
	defaultPointHeight  = 6
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		View: View{
			FramesInView: defaultFramesInView,
			BarWidth:     defaultBarWidth,
			Height:       defaultHeight,
			PointHeight:  defaultPointHeight,
		},
		Channels: Channels{
			Colors: map[string]string{},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
