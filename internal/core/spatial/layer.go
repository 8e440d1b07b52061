package spatial

import "fmt"

// Layer is the small integer category assigned to every interaction volume.
type Layer uint8

// Tracked actor layers.
const (
	LayerRightHand Layer = 6
	LayerLeftHand  Layer = 7
	LayerBody      Layer = 8
)

// MaxLayer is the highest layer a LayerMask can address.
const MaxLayer Layer = 31

func (l Layer) String() string {
	switch l {
	case LayerRightHand:
		return "right_hand"
	case LayerLeftHand:
		return "left_hand"
	case LayerBody:
		return "body"
	default:
		return fmt.Sprintf("layer_%d", uint8(l))
	}
}

// LayerMask selects a set of layers, one bit per layer.
type LayerMask uint32

// MaskAll matches every layer.
const MaskAll LayerMask = ^LayerMask(0)

// ActorMask selects the three tracked actor layers.
var ActorMask = MaskOf(LayerRightHand, LayerLeftHand, LayerBody)

// MaskOf builds a mask from layers. Layers above MaxLayer are ignored.
func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l <= MaxLayer {
			m |= 1 << l
		}
	}
	return m
}

// Has reports whether the mask includes l.
func (m LayerMask) Has(l Layer) bool {
	return l <= MaxLayer && m&(1<<l) != 0
}
