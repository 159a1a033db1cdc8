package config

const (
	defaultCacheDir = "~/.local/share/autotag/cache"
	defaultLogDir   = "~/.local/share/autotag/logs"
	defaultEnvFile  = ".env"

	defaultAcoustIDBaseURL    = "https://api.acoustid.org/v2"
	defaultMinAudioScore      = 0.70
	defaultMusicBrainzBaseURL = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzUA      = "autotag/dev (https://github.com/autotag)"
	defaultMusicBrainzPaceMs  = 1100
	defaultDiscogsBaseURL     = "https://api.discogs.com"
	defaultDiscogsPaceMs      = 1100
	defaultSpotifyBaseURL     = "https://api.spotify.com/v1"
	defaultSpotifyTokenURL    = "https://accounts.spotify.com/api/token"

	defaultCacheTTLDays       = 7
	defaultRequestTimeoutSecs = 15
	defaultMaxRetries         = 3
	defaultRetryBackoffSecs   = 2
	defaultCooldownSecs       = 65
	defaultPreventivePauseSec = 5
	defaultRateLimitFloor     = 2

	defaultMinCombinedScore     = 0.40
	defaultStreamingAcceptFloor = 0.90
	defaultDurationToleranceSec = 5
	defaultArtistOverlapFloor   = 0.20
	defaultCorrectionFloor      = 0.60
	defaultFinalRejectBelow     = 0.50

	defaultGenre       = "Electronic"
	defaultWorkerCount = 4

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
			EnvFile:  defaultEnvFile,
		},
		AcoustID: AcoustID{
			BaseURL:       defaultAcoustIDBaseURL,
			MinAudioScore: defaultMinAudioScore,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:           defaultMusicBrainzBaseURL,
			UserAgent:         defaultMusicBrainzUA,
			MinIntervalMillis: defaultMusicBrainzPaceMs,
		},
		Discogs: Discogs{
			BaseURL:           defaultDiscogsBaseURL,
			MinIntervalMillis: defaultDiscogsPaceMs,
		},
		Spotify: Spotify{
			BaseURL:  defaultSpotifyBaseURL,
			TokenURL: defaultSpotifyTokenURL,
		},
		Gateway: Gateway{
			CacheTTLDays:             defaultCacheTTLDays,
			RequestTimeoutSeconds:    defaultRequestTimeoutSecs,
			MaxRetries:               defaultMaxRetries,
			RetryBackoffSeconds:      defaultRetryBackoffSecs,
			RateLimitCooldownSeconds: defaultCooldownSecs,
			PreventivePauseSeconds:   defaultPreventivePauseSec,
			RateLimitHeaderFloor:     defaultRateLimitFloor,
		},
		Matching: Matching{
			MinCombinedScore:         defaultMinCombinedScore,
			StreamingAcceptFloor:     defaultStreamingAcceptFloor,
			DurationToleranceSeconds: defaultDurationToleranceSec,
			ArtistOverlapFloor:       defaultArtistOverlapFloor,
			IdentityCorrectionFloor:  defaultCorrectionFloor,
			FinalRejectBelow:         defaultFinalRejectBelow,
		},
		Output: Output{
			DefaultGenre: defaultGenre,
			EmbedCover:   true,
		},
		Workers: Workers{
			Count: defaultWorkerCount,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
