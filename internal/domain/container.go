package domain

import "bytes"

// Container identifies how a recorded command is packaged, so speech
// engines can be told what they are receiving.
type Container string

const (
	ContainerWAV  Container = "wav"
	ContainerMP3  Container = "mp3"
	ContainerAAC  Container = "aac"
	ContainerM4A  Container = "m4a"
	ContainerWebM Container = "webm"
	ContainerOgg  Container = "ogg"
	ContainerFLAC Container = "flac"
)

var ebmlMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

// DetectContainer sniffs the magic bytes of data. Anything unrecognised is
// reported as WAV, which is what the microphone source produces.
func DetectContainer(data []byte) Container {
	switch {
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return ContainerWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return ContainerMP3
	case len(data) >= 2 && data[0] == 0xff && data[1]&0xf6 == 0xf0:
		// ADTS sync word with layer bits 00.
		return ContainerAAC
	case len(data) >= 2 && data[0] == 0xff && data[1]&0xe0 == 0xe0:
		return ContainerMP3
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return ContainerM4A
	case bytes.HasPrefix(data, ebmlMagic):
		return ContainerWebM
	case bytes.HasPrefix(data, []byte("OggS")):
		return ContainerOgg
	case bytes.HasPrefix(data, []byte("fLaC")):
		return ContainerFLAC
	default:
		return ContainerWAV
	}
}

func (c Container) MimeType() string {
	switch c {
	case ContainerMP3:
		return "audio/mp3"
	case ContainerAAC:
		return "audio/aac"
	case ContainerM4A:
		return "audio/mp4"
	case ContainerWebM:
		return "audio/webm"
	case ContainerOgg:
		return "audio/ogg"
	case ContainerFLAC:
		return "audio/flac"
	default:
		return "audio/wav"
	}
}

// FileName is a placeholder upload name whose extension matches c.
func (c Container) FileName() string {
	if c == "" {
		c = ContainerWAV
	}
	return "audio." + string(c)
}
