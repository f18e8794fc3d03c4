package vkcontext

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
)

func TestVertexBindingDescriptions(t *testing.T) {
	bindings := vertexBindingDescriptions()
	require.Len(t, bindings, 1)

	assert.Equal(t, 0, bindings[0].Binding)
	assert.Equal(t, int(unsafe.Sizeof(Vertex{})), bindings[0].Stride)
	assert.Equal(t, core1_0.VertexInputRateVertex, bindings[0].InputRate)

	// Two float32 components of position plus three of color.
	assert.Equal(t, 20, bindings[0].Stride)
}

func TestVertexAttributeDescriptions(t *testing.T) {
	attributes := vertexAttributeDescriptions()
	require.Len(t, attributes, 2)

	position := attributes[0]
	assert.Equal(t, uint32(0), position.Location)
	assert.Equal(t, core1_0.FormatR32G32SignedFloat, position.Format)
	assert.Equal(t, 0, position.Offset)

	color := attributes[1]
	assert.Equal(t, uint32(1), color.Location)
	assert.Equal(t, core1_0.FormatR32G32B32SignedFloat, color.Format)
	assert.Equal(t, 8, color.Offset)
}

func TestBytesToBytecode(t *testing.T) {
	// SPIR-V words are little-endian.
	words := bytesToBytecode([]byte{
		0x03, 0x02, 0x23, 0x07,
		0x78, 0x56, 0x34, 0x12,
	})

	assert.Equal(t, []uint32{0x07230203, 0x12345678}, words)
}
