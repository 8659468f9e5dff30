package qfx

import (
	"bytes"
	"fmt"
)

// Render returns data with the name of every changed record replaced.
// Records must come from scanning data, in scan order. With no changed
// records the result equals data byte for byte.
func Render(data []byte, records []Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data))

	last := 0
	for _, r := range records {
		if !r.Changed() {
			continue
		}
		if r.nameStart < last || r.nameEnd < r.nameStart || r.nameEnd > len(data) {
			return nil, fmt.Errorf("record %d does not belong to this document or is out of order", r.Index+1)
		}
		buf.Write(data[last:r.nameStart])
		buf.WriteString(encodeText(r.Name))
		last = r.nameEnd
	}
	buf.Write(data[last:])
	return buf.Bytes(), nil
}
