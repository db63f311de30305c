package index

import (
	"encoding/binary"
)

const timeKeyLen = 8

// key = invTime(8) + 0x00 + id, so a forward cursor walks newest first
func makeTimeIDKey(unixNano int64, id string) []byte {
	buf := make([]byte, timeKeyLen, timeKeyLen+1+len(id))
	binary.BigEndian.PutUint64(buf, ^uint64(unixNano))
	buf = append(buf, 0x00)
	buf = append(buf, id...)
	return buf
}

// idFromTimeIDKey returns the build id of a history key; ok is false for keys
// not written by makeTimeIDKey.
func idFromTimeIDKey(k []byte) (id string, ok bool) {
	if len(k) < timeKeyLen+2 || k[timeKeyLen] != 0x00 {
		return "", false
	}
	return string(k[timeKeyLen+1:]), true
}
