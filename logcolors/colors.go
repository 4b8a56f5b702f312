package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Red    = "\033[31m"
)

// Store-related log prefixes
const (
	LogStoreInit    = Blue + "[Store:Init]" + Reset
	LogStore        = Blue + "[Store]" + Reset
	LogStoreBackup  = Blue + "[Store:Backup]" + Reset
	LogStoreClear   = Blue + "[Store:Clear]" + Reset
	LogStoreRestore = Blue + "[Store:Restore]" + Reset
	LogCacheLyrics  = Green + "[Cache:Lyrics]" + Reset
	LogOverride     = Cyan + "[Override]" + Reset
)

// Rate limiting log prefixes
const (
	LogRateLimit = Purple + "[RateLimit]" + Reset
	LogAPIKey    = Purple + "[APIKey]" + Reset
)

// CircuitBreakerPrefix returns a colored circuit breaker prefix with the given name
func CircuitBreakerPrefix(name string) string {
	return Purple + "[CircuitBreaker:" + name + "]" + Reset
}

// Server/Init log prefixes
const (
	LogServer = Green + "[Server]" + Reset
	LogConfig = Cyan + "[Config]" + Reset
	LogStats  = Blue + "[Stats]" + Reset
)

// Resolution pipeline log prefixes
const (
	LogResolve  = Purple + "[Resolve]" + Reset
	LogSearch   = Blue + "[Search]" + Reset
	LogMatch    = Green + "[Match]" + Reset
	LogSuccess  = Green + "[Success]" + Reset
	LogLyrics   = Blue + "[Lyrics]" + Reset
	LogFallback = Cyan + "[Fallback]" + Reset
	LogWarning  = Red + "[Warning]" + Reset
	LogUpload   = Cyan + "[Upload]" + Reset
	LogManual   = Cyan + "[Manual]" + Reset
)

// Video collaborator log prefixes
const (
	LogVideo = Cyan + "[Video]" + Reset
	LogProxy = Blue + "[Proxy]" + Reset
)
