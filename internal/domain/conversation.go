package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Turn struct {
	Role Role
	Text string
}

type Encoding string

const (
	EncodingWAV Encoding = "wav"
	EncodingMP3 Encoding = "mp3"
	// EncodingPCM is signed 16-bit little-endian mono.
	EncodingPCM Encoding = "pcm"
)

// AudioClip is synthesised speech ready for playback.
type AudioClip struct {
	Data       []byte
	Encoding   Encoding
	SampleRate int
}
