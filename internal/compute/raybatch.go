package compute

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"raypick/internal/camera"
	"raypick/internal/engine"
	"raypick/internal/picking"
)

const workgroupSize = 256

// Box is a world-space bounding box laid out as two padded vec3s.
type Box struct {
	Min  [3]float32
	pad0 float32
	Max  [3]float32
	pad1 float32
}

func BoxOf(a picking.AABB) Box {
	return Box{Min: a.Min, Max: a.Max}
}

// WorldBoxes returns the world-space box around each object, in order.
func WorldBoxes(objs []*engine.Object) []Box {
	boxes := make([]Box, len(objs))
	for i, o := range objs {
		boxes[i] = BoxOf(picking.LocalBounds(o).Transformed(o.Transform.Matrix()))
	}
	return boxes
}

type rayParams struct {
	Origin      [3]float32
	Count       uint32
	Dir         [3]float32
	MaxDistance float32
}

// One thread per box. Same slab test as the CPU picker: the entry distance,
// or the exit distance when the origin is inside, or -1 for a miss.
const rayBatchShader = `
struct Box {
    min: vec3<f32>,
    pad0: f32,
    max: vec3<f32>,
    pad1: f32,
}

struct Params {
    origin: vec3<f32>,
    count: u32,
    dir: vec3<f32>,
    maxDistance: f32,
}

@group(0) @binding(0) var<storage, read> boxes: array<Box>;
@group(0) @binding(1) var<storage, read_write> distances: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.count) {
        return;
    }

    let b = boxes[i];
    var tmin = -3.4e38;
    var tmax = 3.4e38;
    for (var a = 0u; a < 3u; a = a + 1u) {
        let o = params.origin[a];
        let d = params.dir[a];
        if (d != 0.0) {
            var t1 = (b.min[a] - o) / d;
            var t2 = (b.max[a] - o) / d;
            if (t1 > t2) {
                let tmp = t1;
                t1 = t2;
                t2 = tmp;
            }
            tmin = max(tmin, t1);
            tmax = min(tmax, t2);
        } else if (o < b.min[a] || o > b.max[a]) {
            distances[i] = -1.0;
            return;
        }
    }

    var t = tmin;
    if (t < 0.0) {
        t = tmax;
    }
    if (tmin > tmax || t < 0.0 || t > params.maxDistance) {
        t = -1.0;
    }
    distances[i] = t;
}
`

// RayBatch tests one ray against many boxes per dispatch.
type RayBatch struct {
	system   *System
	pipeline *Pipeline

	boxBuffer      *Buffer
	distanceBuffer *Buffer
	maxBoxes       uint32
}

// NewRayBatch allocates buffers for up to maxBoxes boxes.
func NewRayBatch(sys *System, maxBoxes uint32) (*RayBatch, error) {
	if maxBoxes == 0 {
		return nil, fmt.Errorf("compute: ray batch needs capacity: %w", engine.ErrConfiguration)
	}
	pipeline, err := sys.pipeline("ray_batch", rayBatchShader)
	if err != nil {
		return nil, err
	}

	boxBuffer, err := sys.buffer("boxes", uint64(maxBoxes)*32, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	distanceBuffer, err := sys.buffer("distances", uint64(maxBoxes)*4, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	if err != nil {
		boxBuffer.Release()
		return nil, err
	}

	return &RayBatch{
		system:         sys,
		pipeline:       pipeline,
		boxBuffer:      boxBuffer,
		distanceBuffer: distanceBuffer,
		maxBoxes:       maxBoxes,
	}, nil
}

// Distances returns, per box, the hit distance along ray or -1. Boxes past
// the batch capacity are ignored.
func (rb *RayBatch) Distances(ray camera.Ray, boxes []Box, maxDistance float32) ([]float32, error) {
	if len(boxes) == 0 {
		return nil, nil
	}
	if uint32(len(boxes)) > rb.maxBoxes {
		boxes = boxes[:rb.maxBoxes]
	}
	if maxDistance <= 0 {
		maxDistance = 3.4e38
	}
	count := uint32(len(boxes))

	rb.system.queue.WriteBuffer(rb.boxBuffer.buffer, 0, wgpu.ToBytes(boxes))

	params, err := rb.system.bufferWithData("ray_params", wgpu.ToBytes([]rayParams{{
		Origin:      ray.Origin,
		Count:       count,
		Dir:         ray.Dir,
		MaxDistance: maxDistance,
	}}), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer params.Release()

	workgroups := (count + workgroupSize - 1) / workgroupSize
	if err := rb.system.dispatch(rb.pipeline, workgroups, rb.boxBuffer, rb.distanceBuffer, params); err != nil {
		return nil, err
	}

	data, err := rb.system.read(rb.distanceBuffer, uint64(count)*4)
	if err != nil {
		return nil, err
	}
	return wgpu.FromBytes[float32](data), nil
}

// Candidates returns the indexes of boxes the ray hit, in input order.
func Candidates(distances []float32) []int {
	var idx []int
	for i, d := range distances {
		if d >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func (rb *RayBatch) Release() {
	rb.boxBuffer.Release()
	rb.distanceBuffer.Release()
}
