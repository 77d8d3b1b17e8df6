package engine

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewObject(t *testing.T) {
	now := time.Unix(100, 0)
	obj := NewObject("TestObject", nil, now)

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}
	if obj.ID == 0 {
		t.Error("ID should not be 0")
	}
	if !obj.SpawnedAt.Equal(now) || !obj.LastTick.Equal(now) {
		t.Error("SpawnedAt and LastTick should both start at creation time")
	}
	if obj.BobDirection != 1 {
		t.Errorf("BobDirection should start at +1, got %v", obj.BobDirection)
	}
}

func TestObjectUniqueIDs(t *testing.T) {
	now := time.Now()
	obj1 := NewObject("First", nil, now)
	obj2 := NewObject("Second", nil, now)
	obj3 := NewObject("Third", nil, now)

	if obj1.ID == obj2.ID || obj2.ID == obj3.ID || obj1.ID == obj3.ID {
		t.Error("Objects should have unique IDs")
	}
}

func TestObjectUpdateRunsRulesInOrder(t *testing.T) {
	obj := NewObject("Test", nil, time.Now())
	var order []string
	obj.AddRule(RuleFunc(func(o *Object, elapsed time.Duration) { order = append(order, "a") }))
	obj.AddRule(RuleFunc(func(o *Object, elapsed time.Duration) { order = append(order, "b") }))

	obj.Update(16 * time.Millisecond)

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("Expected rules in order [a b], got %v", order)
	}
}

func TestObjectUpdateZeroElapsedIsNoop(t *testing.T) {
	obj := NewObject("Test", nil, time.Now())
	calls := 0
	obj.AddRule(RuleFunc(func(o *Object, elapsed time.Duration) { calls++ }))

	obj.Update(0)
	obj.Update(-time.Second)

	if calls != 0 {
		t.Errorf("Rules should not run for non-positive elapsed, ran %d times", calls)
	}
}

func TestNodeParentChild(t *testing.T) {
	body := NewDrawable("Body", Mesh{Handle: "box", Shape: Box(mgl32.Vec3{1, 1, 1})}, Material{})
	head := NewDrawable("Head", Mesh{Handle: "sphere", Shape: Sphere(0.5)}, Material{})
	group := NewGroup("Penguin", body, head)

	if body.Parent != group || head.Parent != group {
		t.Error("Children should point at their group")
	}
	if len(group.Children) != 2 {
		t.Errorf("Expected 2 children, got %d", len(group.Children))
	}

	group.RemoveChild(body)
	if len(group.Children) != 1 || group.Children[0] != head {
		t.Error("Wrong child removed")
	}
	if body.Parent != nil {
		t.Error("Removed child should have nil parent")
	}
}

func TestNodeRootIsTopmostGroup(t *testing.T) {
	beak := NewDrawable("Beak", Mesh{Shape: Box(mgl32.Vec3{0.2, 0.2, 0.4})}, Material{})
	head := NewGroup("HeadGroup", beak)
	root := NewGroup("Penguin", head)

	if beak.Root() != root {
		t.Error("Root() should walk to the topmost group")
	}

	obj := NewObject("Penguin", root, time.Now())
	if !obj.Owns(beak) {
		t.Error("Object should own nested drawables")
	}
	if obj.Owns(NewDrawable("Stray", Mesh{}, Material{})) {
		t.Error("Object should not own nodes from another graph")
	}
}

func TestAddChildOnDrawablePanics(t *testing.T) {
	leaf := NewDrawable("Leaf", Mesh{}, Material{})
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic adding a child to a drawable")
		}
	}()
	leaf.AddChild(NewDrawable("Other", Mesh{}, Material{}))
}

func TestObjectWalkComposesTransforms(t *testing.T) {
	part := NewDrawable("Part", Mesh{Shape: Box(mgl32.Vec3{1, 1, 1})}, Material{})
	part.Local = TranslationOf(mgl32.Vec3{0, 2, 0})
	obj := NewObject("Obj", NewGroup("Root", part), time.Now())
	obj.Transform = TranslationOf(mgl32.Vec3{10, 0, 0})

	var got mgl32.Vec3
	obj.Walk(func(n *Node, world mgl32.Mat4) {
		if n == part {
			got = world.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
		}
	})

	if !got.ApproxEqual(mgl32.Vec3{10, 2, 0}) {
		t.Errorf("Expected part at (10,2,0), got %v", got)
	}
	if n := len(obj.Drawables()); n != 1 {
		t.Errorf("Expected 1 drawable, got %d", n)
	}
}
