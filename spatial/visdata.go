package spatial

// VisData is the per-cluster potentially-visible-set bitmap baked into a
// level's BSP data. Rows may be stored raw or run-length compressed (a
// zero byte followed by a repeat count, the classic zero-run scheme used
// by brush-based PVS formats): Decode always returns an uncompressed row.
type VisData struct {
	ClusterCount int
	RowBytes     int // bytes needed for one uncompressed row (ClusterCount bits).
	Compressed   bool
	Rows         [][]byte // one entry per cluster.
}

// NewVisData builds an uncompressed VisData from full bit rows.
func NewVisData(clusterCount int, rows [][]byte) *VisData {
	return &VisData{
		ClusterCount: clusterCount,
		RowBytes:     (clusterCount + 7) / 8,
		Compressed:   false,
		Rows:         rows,
	}
}

// Decode returns a freshly-allocated, uncompressed bitmap for cluster —
// never a shared buffer aliased across calls, so concurrent or nested BSP
// queries can't observe a partially-decoded row.
func (v *VisData) Decode(cluster int) []byte {
	if cluster < 0 || cluster >= len(v.Rows) {
		return nil
	}
	if !v.Compressed {
		out := make([]byte, v.RowBytes)
		copy(out, v.Rows[cluster])
		return out
	}
	return decodeRLE(v.Rows[cluster], v.RowBytes)
}

// decodeRLE expands a zero-run-compressed row to rowBytes: a literal
// non-zero byte is copied as-is; a zero byte is followed by a count byte
// giving how many zero bytes to emit.
func decodeRLE(src []byte, rowBytes int) []byte {
	out := make([]byte, 0, rowBytes)
	for i := 0; i < len(src) && len(out) < rowBytes; {
		b := src[i]
		i++
		if b != 0 {
			out = append(out, b)
			continue
		}
		count := 0
		if i < len(src) {
			count = int(src[i])
			i++
		}
		for k := 0; k < count; k++ {
			out = append(out, 0)
		}
	}
	for len(out) < rowBytes {
		out = append(out, 0)
	}
	return out[:rowBytes]
}

// EncodeRLE compresses a full row with the same zero-run scheme Decode
// understands, used by the asset pipeline when baking PVS data.
func EncodeRLE(row []byte) []byte {
	var out []byte
	for i := 0; i < len(row); {
		if row[i] != 0 {
			out = append(out, row[i])
			i++
			continue
		}
		start := i
		for i < len(row) && row[i] == 0 && i-start < 255 {
			i++
		}
		out = append(out, 0, byte(i-start))
	}
	return out
}

// visBit reports whether bit i (little-endian within each byte) is set in row.
func visBit(row []byte, i int) bool {
	byteIdx := i / 8
	if byteIdx < 0 || byteIdx >= len(row) {
		return false
	}
	return row[byteIdx]&(1<<uint(i%8)) != 0
}
