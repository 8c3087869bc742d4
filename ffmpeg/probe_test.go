package ffmpeg

import (
	"context"
	"reflect"
	"testing"

	"github.com/jonwraymond/webvideo/naming"
)

const sampleProbe = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000"},
    {"index": 2, "codec_name": "mjpeg", "codec_type": "video", "width": 320, "height": 180}
  ]
}`

func TestParseProbe(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want naming.StreamInfo
	}{
		{
			name: "first streams win",
			in:   sampleProbe,
			want: naming.StreamInfo{Width: 1920, Height: 1080, VideoCodec: "h264", AudioCodec: "aac", HasVideo: true, HasAudio: true},
		},
		{
			name: "no audio",
			in:   `{"streams":[{"codec_type":"video","codec_name":"vp9","width":640,"height":360}]}`,
			want: naming.StreamInfo{Width: 640, Height: 360, VideoCodec: "vp9", HasVideo: true},
		},
		{
			name: "no streams",
			in:   `{}`,
			want: naming.StreamInfo{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProbe([]byte(tt.in))
			if err != nil {
				t.Fatalf("ParseProbe() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProbe() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := ParseProbe([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestProber_Probe(t *testing.T) {
	fake := &fakeRun{out: []byte(sampleProbe)}
	p := &Prober{bin: "ffprobe", run: fake.run}

	info, err := p.Probe(context.Background(), []byte("media"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Dimensions() != "1920x1080" {
		t.Errorf("Dimensions() = %q", info.Dimensions())
	}
	want := []string{"-v", "error", "-print_format", "json", "-show_streams", "-i", "pipe:0"}
	if !reflect.DeepEqual(fake.args, want) {
		t.Errorf("args = %q", fake.args)
	}
	if string(fake.stdin) != "media" {
		t.Errorf("stdin = %q", fake.stdin)
	}
}

func TestProber_ProbeFile(t *testing.T) {
	fake := &fakeRun{out: []byte(`{"streams":[]}`)}
	p := &Prober{bin: "ffprobe", run: fake.run}

	info, err := p.ProbeFile(context.Background(), "/src/clip.mov")
	if err != nil {
		t.Fatal(err)
	}
	if info.HasAudio || info.HasVideo {
		t.Errorf("info = %+v", info)
	}
	if fake.args[len(fake.args)-1] != "/src/clip.mov" || fake.stdin != nil {
		t.Errorf("args = %q stdin = %q", fake.args, fake.stdin)
	}
}

var _ naming.Probe = (*Prober)(nil)
