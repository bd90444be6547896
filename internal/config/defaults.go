package config

const (
	defaultConfigPath              = "~/.config/nyamedia/config.toml"
	defaultDataDir                 = "~/.local/share/nyamedia"
	defaultLogDir                  = "~/.local/share/nyamedia/logs"
	defaultStoreFile               = "data.sqlite"
	defaultAPITimeoutSeconds       = 10
	defaultAria2Host               = "http://localhost"
	defaultAria2Port               = 6800
	defaultAria2RPCPath            = "/jsonrpc"
	defaultAria2DownloadRoot       = "/downloads"
	defaultAria2TimeoutSeconds     = 10
	defaultAria2BreakerFailures    = 3
	defaultAria2BreakerCooldown    = 60
	defaultFeedTimeoutSeconds      = 30
	defaultFeedUserAgent           = "nyamedia/0.1 (+https://github.com/nyamedia/nyamedia)"
	defaultFeedRequestsPerSecond   = 1.0
	defaultFeedWorkers             = 1
	defaultFeedWatchInterval       = 900
	defaultNotifyRequestTimeout    = 10
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultNotifyDispatchEnabled   = true
	defaultNotifyRunSummaryEnabled = true
	defaultNotifyErrorsEnabled     = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		API: API{
			TimeoutSeconds: defaultAPITimeoutSeconds,
		},
		Aria2: Aria2{
			Host:                   defaultAria2Host,
			Port:                   defaultAria2Port,
			RPCPath:                defaultAria2RPCPath,
			DownloadRoot:           defaultAria2DownloadRoot,
			TimeoutSeconds:         defaultAria2TimeoutSeconds,
			BreakerFailures:        defaultAria2BreakerFailures,
			BreakerCooldownSeconds: defaultAria2BreakerCooldown,
		},
		Feeds: Feeds{
			TimeoutSeconds:    defaultFeedTimeoutSeconds,
			UserAgent:         defaultFeedUserAgent,
			RequestsPerSecond: defaultFeedRequestsPerSecond,
			Workers:           defaultFeedWorkers,
			WatchInterval:     defaultFeedWatchInterval,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Dispatch:       defaultNotifyDispatchEnabled,
			RunSummary:     defaultNotifyRunSummaryEnabled,
			Errors:         defaultNotifyErrorsEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
