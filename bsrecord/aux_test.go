package bsrecord

import (
	"errors"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetNM(t *testing.T) {
	r := &sam.Record{}
	require.NoError(t, SetNM(r, 3))
	nm, err := NM(r)
	require.NoError(t, err)
	assert.Equal(t, 3, nm)
}

func TestSetNMReplacesExisting(t *testing.T) {
	r := &sam.Record{}
	require.NoError(t, SetNM(r, 1))
	require.NoError(t, SetNM(r, 5))
	assert.Len(t, r.AuxFields, 1)
	nm, err := NM(r)
	require.NoError(t, err)
	assert.Equal(t, 5, nm)
}

func TestSetAndGetCV(t *testing.T) {
	r := &sam.Record{}
	require.NoError(t, SetCV(r, 'A'))
	cv, err := CV(r)
	require.NoError(t, err)
	assert.Equal(t, byte('A'), cv)
}

func TestNMMissingIsError(t *testing.T) {
	r := &sam.Record{}
	_, err := NM(r)
	assert.True(t, errors.Is(err, ErrAuxTagMissing))
}

func TestClearAux(t *testing.T) {
	r := &sam.Record{}
	require.NoError(t, SetNM(r, 1))
	require.NoError(t, SetCV(r, 'T'))
	ClearAux(r)
	assert.Len(t, r.AuxFields, 0)
}
