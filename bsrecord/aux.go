package bsrecord

import (
	"errors"
	"fmt"

	"github.com/biogo/hts/sam"
)

// ErrAuxTagMissing is returned when a record lacks the NM or CV tag
// the splicer needs to read.
var ErrAuxTagMissing = errors.New("bsrecord: expected aux tag missing")

var (
	nmTag = sam.NewTag("NM")
	cvTag = sam.NewTag("CV")
)

// NM returns the record's NM (mismatch count) aux tag as an int.
func NM(r *sam.Record) (int, error) {
	return auxInt(r, nmTag)
}

// SetNM sets the record's NM aux tag, replacing any existing value.
func SetNM(r *sam.Record, v int) error {
	return setAuxInt(r, nmTag, v)
}

// CV returns the record's CV (conversion) aux tag, 'A' or 'T'.
func CV(r *sam.Record) (byte, error) {
	return auxChar(r, cvTag)
}

// SetCV sets the record's CV aux tag, replacing any existing value.
func SetCV(r *sam.Record, v byte) error {
	return setAuxChar(r, cvTag, v)
}

// ClearAux drops every aux field from r.
func ClearAux(r *sam.Record) {
	r.AuxFields = r.AuxFields[:0]
}

func auxInt(r *sam.Record, tag sam.Tag) (int, error) {
	a := r.AuxFields.Get(tag)
	if a == nil {
		return 0, fmt.Errorf("%w: %s", ErrAuxTagMissing, tag)
	}
	switch v := a.Value().(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("bsrecord: %s tag has non-integer value %v", tag, v)
	}
}

func setAuxInt(r *sam.Record, tag sam.Tag, v int) error {
	removeAux(r, tag)
	a, err := sam.NewAux(tag, int32(v))
	if err != nil {
		return fmt.Errorf("bsrecord: setting %s: %w", tag, err)
	}
	r.AuxFields = append(r.AuxFields, a)
	return nil
}

func auxChar(r *sam.Record, tag sam.Tag) (byte, error) {
	a := r.AuxFields.Get(tag)
	if a == nil {
		return 0, fmt.Errorf("%w: %s", ErrAuxTagMissing, tag)
	}
	switch v := a.Value().(type) {
	case byte:
		return v, nil
	case string:
		if len(v) != 1 {
			return 0, fmt.Errorf("bsrecord: %s tag has non-char value %q", tag, v)
		}
		return v[0], nil
	default:
		return 0, fmt.Errorf("bsrecord: %s tag has non-char value %v", tag, v)
	}
}

func setAuxChar(r *sam.Record, tag sam.Tag, v byte) error {
	removeAux(r, tag)
	a, err := sam.NewAux(tag, v)
	if err != nil {
		return fmt.Errorf("bsrecord: setting %s: %w", tag, err)
	}
	r.AuxFields = append(r.AuxFields, a)
	return nil
}

func removeAux(r *sam.Record, tag sam.Tag) {
	for i, a := range r.AuxFields {
		if a.Tag() == tag {
			r.AuxFields = append(r.AuxFields[:i], r.AuxFields[i+1:]...)
			return
		}
	}
}
