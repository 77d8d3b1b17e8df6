// Stress test for picking: brute-force CPU picks against registry size, and
// optionally a GPU candidate pass followed by the CPU test on the survivors.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"raypick/internal/camera"
	"raypick/internal/compute"
	"raypick/internal/engine"
	"raypick/internal/picking"
)

const rays = 100

func main() {
	useGPU := flag.Bool("gpu", false, "also time the GPU candidate pass")
	recursive := flag.Bool("recursive", false, "pick composite parts instead of whole objects")
	seed := flag.Uint64("seed", 42, "scene seed")
	flag.Parse()

	var batchSys *compute.System
	if *useGPU {
		sys, err := compute.New()
		if err != nil {
			panic(fmt.Sprintf("Failed to init compute: %v", err))
		}
		defer sys.Release()
		info := sys.Info()
		fmt.Printf("GPU: %s | %s | %s\n\n", info.Backend, info.Vendor, info.Name)
		batchSys = sys
	}

	for _, count := range []int{100, 500, 1000, 2000, 5000, 10000, 20000} {
		testPick(count, *seed, *recursive, batchSys)
	}
}

// scene scatters count two-part figures in front of a camera at the origin.
func scene(count int, seed uint64) *engine.Registry {
	rng := rand.New(rand.NewPCG(seed, seed))
	reg := engine.NewRegistry("Stress")
	now := time.Now()

	for i := range count {
		body := engine.NewDrawable("Body", engine.Mesh{Handle: "box", Shape: engine.Box(mgl32.Vec3{20, 30, 20})}, engine.Material{})
		head := engine.NewDrawable("Head", engine.Mesh{Handle: "sphere", Shape: engine.Sphere(8)}, engine.Material{})
		head.Local = engine.TranslationOf(mgl32.Vec3{0, 24, 0})

		o := engine.NewObject(fmt.Sprintf("Figure_%d", i), engine.NewGroup("Figure", body, head), now)
		o.Transform = engine.TranslationOf(mgl32.Vec3{
			rng.Float32()*1000 - 500,
			rng.Float32()*600 - 300,
			-100 - rng.Float32()*800,
		})
		o.Transform.Rotate(mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(rng.Float32()*360))
		if err := reg.Add(o); err != nil {
			panic(err)
		}
	}
	return reg
}

func testPick(count int, seed uint64, recursive bool, sys *compute.System) {
	reg := scene(count, seed)
	cam := camera.New(mgl32.Vec3{0, 0, 0}, 60, 16.0/9.0, 1, 1000)
	opts := picking.Options{Recursive: recursive, MaxDistance: cam.Far}

	rng := rand.New(rand.NewPCG(seed, 7))
	raysNDC := make([]mgl32.Vec2, rays)
	for i := range raysNDC {
		raysNDC[i] = mgl32.Vec2{rng.Float32()*2 - 1, rng.Float32()*2 - 1}
	}

	cpuStart := time.Now()
	cpuHits := 0
	for _, ndc := range raysNDC {
		cpuHits += len(picking.PickNDC(ndc, cam, reg, opts))
	}
	cpuTime := time.Since(cpuStart) / rays

	if sys == nil {
		fmt.Printf("%5d objects: CPU %10v per pick (%d hits over %d rays)\n",
			count, cpuTime.Round(time.Microsecond), cpuHits, rays)
		return
	}

	batch, err := compute.NewRayBatch(sys, uint32(count))
	if err != nil {
		fmt.Printf("%5d objects: GPU ERROR: %v\n", count, err)
		return
	}
	defer batch.Release()

	objs := reg.Snapshot()
	boxes := compute.WorldBoxes(objs)

	// Warm up
	_, _ = batch.Distances(cam.Ray(raysNDC[0]), boxes, cam.Far)

	gpuStart := time.Now()
	gpuHits, candidates := 0, 0
	for _, ndc := range raysNDC {
		ray := cam.Ray(ndc)
		dist, err := batch.Distances(ray, boxes, cam.Far)
		if err != nil {
			fmt.Printf("%5d objects: GPU ERROR: %v\n", count, err)
			return
		}
		idx := compute.Candidates(dist)
		candidates += len(idx)

		survivors := make([]*engine.Object, len(idx))
		for i, j := range idx {
			survivors[i] = objs[j]
		}
		gpuHits += len(picking.Pick(ray, slices.Values(survivors), opts))
	}
	gpuTime := time.Since(gpuStart) / rays

	speedup := float64(cpuTime) / float64(gpuTime)
	fmt.Printf("%5d objects: GPU %8v (%4d hits, %5d candidates) | CPU %10v (%4d hits) | %.1fx speedup\n",
		count, gpuTime.Round(time.Microsecond), gpuHits, candidates,
		cpuTime.Round(time.Microsecond), cpuHits, speedup)
}
