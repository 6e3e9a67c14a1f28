package filetype

import "bytes"

const binarySniffSize = 512

// IsBinaryContent reports whether data looks binary: a NUL byte within the first 512 bytes.
func IsBinaryContent(data []byte) bool {
	if len(data) > binarySniffSize {
		data = data[:binarySniffSize]
	}
	return bytes.IndexByte(data, 0) >= 0
}
