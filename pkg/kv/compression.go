package kv

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

func CompressData(inData []byte, bbufOut *bytes.Buffer) error {
	enc, err := zstd.NewWriter(bbufOut, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if _, err = enc.Write(inData); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func DecompressData(inData []byte, out io.Writer) error {
	d, err := zstd.NewReader(bytes.NewReader(inData))
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(out, d)
	return err
}
