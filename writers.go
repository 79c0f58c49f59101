package mgrb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// WriteFloats dumps a float64 slice to a raw little-endian float32 binary,
// the compact output format read back by post-processing scripts.
func WriteFloats(fp string, f []float64) error {
	f32 := func() []float32 {
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("WriteFloats failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("WriteFloats failed: %v", err)
	}
	return nil
}

// WriteGrid dumps a [L][N] table row-major as float32s, prefixed by its
// two int32 dimensions.
func WriteGrid(fp string, t [][]float64) error {
	buf := new(bytes.Buffer)
	dims := []int32{int32(len(t)), 0}
	if len(t) > 0 {
		dims[1] = int32(len(t[0]))
	}
	if err := binary.Write(buf, binary.LittleEndian, dims); err != nil {
		return fmt.Errorf("WriteGrid failed: %v", err)
	}
	for _, row := range t {
		f32 := make([]float32, len(row))
		for i, v := range row {
			f32[i] = float32(v)
		}
		if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
			return fmt.Errorf("WriteGrid failed: %v", err)
		}
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("WriteGrid failed: %v", err)
	}
	return nil
}
