package transcode

// Request asks an encoder to produce one output. Input holds the source
// bytes; SourcePath, when set, names the same content on disk and lets the
// encoder read it directly.
type Request struct {
	SourcePath string
	Input      []byte
	Config     Config
}
