package config

const (
	defaultConfigPath            = "~/.config/autosheetify/config.toml"
	defaultBaseURL               = "http://127.0.0.1:8000"
	defaultServiceTimeoutSeconds = 600
	defaultSessionPath           = "~/.config/autosheetify/session.json"
	defaultDataDir               = "~/.local/share/autosheetify"
	defaultOutputDir             = "~/Music/AutoSheetify"
	defaultLogDir                = "~/.local/share/autosheetify/logs"
	defaultServerBind            = "127.0.0.1:7488"
	defaultInstrument            = "piano"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultServiceTimeoutSeconds,
		},
		Auth: Auth{
			SessionPath: defaultSessionPath,
		},
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Library: Library{
			Enabled: true,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Transcription: Transcription{
			DefaultInstrument: defaultInstrument,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
