package codec

import (
	"encoding/binary"
	"math"
)

// put{I16,I32,F32,F64} write a single little-endian element into dst, used
// by PackedArray's fill callback where the destination is a raw window
// rather than a Writer cursor.
func putI16(dst []byte, v int16) { binary.LittleEndian.PutUint16(dst, uint16(v)) }
func putI32(dst []byte, v int32) { binary.LittleEndian.PutUint32(dst, uint32(v)) }
func putF32(dst []byte, v float32) { binary.LittleEndian.PutUint32(dst, math.Float32bits(v)) }
func putF64(dst []byte, v float64) { binary.LittleEndian.PutUint64(dst, math.Float64bits(v)) }

func getI16(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }
func getI32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }
func getF32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
func getF64(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }
