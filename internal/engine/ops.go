package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type OpKind string

const (
	OpRotate    OpKind = "rotate"
	OpTranslate OpKind = "translate"
)

// Op is one recorded transform operation. A list of ops can be written out and
// replayed later to reproduce the exact same matrix.
type Op struct {
	Kind   OpKind     `yaml:"kind"`
	Axis   [3]float32 `yaml:"axis,flow"`
	Angle  float32    `yaml:"angle"`
	Offset [3]float32 `yaml:"offset,flow"`
}

func RotateOp(axis mgl32.Vec3, angle float32) Op {
	return Op{Kind: OpRotate, Axis: axis, Angle: angle}
}

func TranslateOp(v mgl32.Vec3) Op {
	return Op{Kind: OpTranslate, Offset: v}
}

// Apply replays ops in order. Unknown kinds and rotations about a zero axis
// are rejected before anything is applied.
func (t *Transform) Apply(ops ...Op) error {
	for i, op := range ops {
		switch op.Kind {
		case OpTranslate:
		case OpRotate:
			if mgl32.Vec3(op.Axis).Len() == 0 {
				return fmt.Errorf("op %d: rotation axis is zero: %w", i, ErrConfiguration)
			}
		default:
			return fmt.Errorf("op %d: unknown kind %q: %w", i, op.Kind, ErrConfiguration)
		}
	}
	for _, op := range ops {
		switch op.Kind {
		case OpRotate:
			t.Rotate(op.Axis, op.Angle)
		case OpTranslate:
			t.Translate(op.Offset)
		}
	}
	return nil
}

func MarshalOps(ops []Op) ([]byte, error) {
	return yaml.Marshal(struct {
		Ops []Op `yaml:"ops"`
	}{ops})
}

func UnmarshalOps(data []byte) ([]Op, error) {
	var doc struct {
		Ops []Op `yaml:"ops"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode ops: %w", err)
	}
	return doc.Ops, nil
}
