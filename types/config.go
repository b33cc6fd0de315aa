package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Port           int   `yaml:"port"`
	ChunkSize      int   `yaml:"chunkSize"`      // bytes per binary chunk
	TextChunkSize  int   `yaml:"textChunkSize"`  // characters per text chunk
	MaxUploadSize  int64 `yaml:"maxUploadSize"`  // largest declared image size in bytes
	MaxImageHeight int   `yaml:"maxImageHeight"` // pixels
	MaxImagePixels int64 `yaml:"maxImagePixels"` // width*height accepted for decoding
	JpegQuality    int   `yaml:"jpegQuality"`    // 1-100
	// "exact" (default) completes an upload once every declared byte arrived.
	// "lenient" completes one byte early; producers that expect the reference
	// from the chunk reaching declared-1 (the stock browser editor) need it.
	Completion         string `yaml:"completion"`
	SessionTTLSeconds  int    `yaml:"sessionTTLSeconds"`  // abandoned upload sessions expire after this
	RateLimitPerSecond int    `yaml:"rateLimitPerSecond"` // 0 disables rate limiting
	RateLimitBurst     int    `yaml:"rateLimitBurst"`
	AllowRemote        bool   `yaml:"allowRemote"` // if false, only loopback callers are accepted
	NotifySocket       string `yaml:"notifySocket,omitempty"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log            string
	UseConfigPath  string
	UsePort        int
	UseChunkSize   int
	UseAllowRemote bool
	SkipNotify     bool // if true, do not forward notifications to the host unix socket.

	// producer mode: push a file to a running bridge and exit.
	PushImage string
	PushText  string
	Target    string // base URL of the bridge, e.g. http://127.0.0.1:53318
	Editor    string // editor id; a new editor is set up when empty
}
