package media

// Container identifies an output container format.
type Container int

// Supported containers. containerCount must stay last.
const (
	MP4 Container = iota
	WebM
	containerCount
)

type containerInfo struct {
	name        string
	ext         string
	mimeType    string
	muxer       string
	muxerArgs   []string
	video       VideoCodec
	audio       AudioCodec
	videoCodecs []VideoCodec
	audioCodecs []AudioCodec
}

var containers = [containerCount]containerInfo{
	MP4: {
		name:     "mp4",
		ext:      "mp4",
		mimeType: "video/mp4",
		muxer:    "mp4",
		// Fragmented output so the muxer can write to a pipe.
		muxerArgs:   []string{"-movflags", "frag_keyframe+empty_moov+faststart"},
		video:       H264,
		audio:       AAC,
		videoCodecs: []VideoCodec{AV1, H264, H265},
		audioCodecs: []AudioCodec{AAC, FLAC},
	},
	WebM: {
		name:        "webm",
		ext:         "webm",
		mimeType:    "video/webm",
		muxer:       "webm",
		video:       VP9,
		audio:       Opus,
		videoCodecs: []VideoCodec{AV1, VP8, VP9},
		audioCodecs: []AudioCodec{Opus, Vorbis},
	},
}

// Containers returns every supported container in declaration order.
func Containers() []Container {
	out := make([]Container, 0, containerCount)
	for c := Container(0); c < containerCount; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is a member of the container set.
func (c Container) Valid() bool {
	return c >= 0 && c < containerCount
}

func (c Container) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return containers[c].name
}

// Ext returns the file extension, without a leading dot.
func (c Container) Ext() string {
	if !c.Valid() {
		return ""
	}
	return containers[c].ext
}

// MIMEType returns the bare container MIME type, e.g. "video/webm".
func (c Container) MIMEType() string {
	if !c.Valid() {
		return ""
	}
	return containers[c].mimeType
}

// Muxer returns the ffmpeg muxer name and any muxer-specific arguments.
func (c Container) Muxer() (string, []string) {
	if !c.Valid() {
		return "", nil
	}
	info := containers[c]
	return info.muxer, append([]string(nil), info.muxerArgs...)
}

// ParseContainer looks up a container by name.
func ParseContainer(name string) (Container, error) {
	for c := Container(0); c < containerCount; c++ {
		if containers[c].name == name {
			return c, nil
		}
	}
	return 0, &UnknownContainerError{Name: name}
}
