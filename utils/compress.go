// Package utils holds small helpers shared across the server.
package utils

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
)

// CompressString gzips a lyrics payload and encodes it as base64 so it can
// sit inside a JSON record in the store. Full songs compress to a fraction
// of their raw size, so BestCompression is worth the extra CPU.
func CompressString(input string) (string, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write([]byte(input)); err != nil {
		return "", fmt.Errorf("compress: %v", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecompressString reverses CompressString. Input that is not valid
// base64-wrapped gzip is an error, never passed through as-is.
func DecompressString(input string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return "", err
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("decompress: %v", err)
	}
	return string(plain), nil
}
