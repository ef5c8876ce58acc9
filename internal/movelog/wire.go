package movelog

import "fmt"

// RecordSize is the length of a wire record.
const RecordSize = 7

// MarshalBinary encodes the entry as seven unsigned bytes in log order.
func (e Entry) MarshalBinary() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	f := e.fields()
	buf := make([]byte, RecordSize)
	for i, v := range f {
		buf[i] = byte(v)
	}
	return buf, nil
}

// UnmarshalBinary decodes a seven byte record.
func (e *Entry) UnmarshalBinary(data []byte) error {
	if len(data) != RecordSize {
		return fmt.Errorf("%w: record is %d bytes, want %d", ErrMalformed, len(data), RecordSize)
	}
	var v [7]int
	for i, b := range data {
		v[i] = int(b)
	}
	decoded, err := fromFields(v)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}
