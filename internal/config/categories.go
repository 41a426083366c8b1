package config

// CategoryWeights orders command groups in the help listing.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎵 Playback":     10,
	"📜 Queue":        20,
	"🔊 Voice":        30,
}
