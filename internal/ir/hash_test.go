package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleClip(value float64) IRObject {
	return IRObject{
		"name":       IRString("Merged"),
		"frame_rate": Number(30),
		"curves": IRArray{
			IRObject{
				"binding": IRString("Hips|transform|localPosition.x"),
				"keys":    IRArray{IRArray{Number(0), Number(value)}},
			},
		},
	}
}

func TestClipIDDeterminism(t *testing.T) {
	id1, err := ClipID(sampleClip(1))
	require.NoError(t, err)
	id2, err := ClipID(sampleClip(1))
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestClipIDChangesWithContent(t *testing.T) {
	assert.NotEqual(t, MustClipID(sampleClip(1)), MustClipID(sampleClip(1.0000001)))
}

func TestDomainSeparation(t *testing.T) {
	clip := sampleClip(1)
	clipID := MustClipID(clip)
	curveHash, err := CurveHash(clip)
	require.NoError(t, err)

	assert.NotEqual(t, clipID, curveHash)
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + "c" must not collide with "a" + "bc".
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestClipIDErrorHandling(t *testing.T) {
	_, err := ClipID(IRObject{"bad": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ClipID")

	assert.Panics(t, func() { MustClipID(IRObject{"bad": nil}) })
}
