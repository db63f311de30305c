package index

var (
	bOutputs = []byte("outputs") // target -> fingerprint json
	bBuilds  = []byte("builds")  // invTime + 0x00 + build id -> record json
)
