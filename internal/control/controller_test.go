package control

import (
	"math"
	"testing"
)

func TestControllerSmoothing(t *testing.T) {
	var c Controller

	wheel, accel := c.Update(Keys{Forward: true})
	if math.Abs(accel-0.1) > 1e-12 || wheel != 0 {
		t.Fatalf("first frame = (%v, %v), want (0, 0.1)", wheel, accel)
	}
	_, accel = c.Update(Keys{Forward: true})
	if math.Abs(accel-0.19) > 1e-12 {
		t.Fatalf("second frame accel = %v, want 0.19", accel)
	}

	for i := 0; i < 500; i++ {
		wheel, accel = c.Update(Keys{Forward: true, Left: true})
	}
	if math.Abs(accel-1) > 1e-9 || math.Abs(wheel+1) > 1e-9 {
		t.Fatalf("held keys converge to (%v, %v), want (-1, 1)", wheel, accel)
	}
}

func TestControllerIdle(t *testing.T) {
	c := Controller{Wheel: 0.7, Acceleration: -0.4}
	wheel, accel := c.Update(Keys{Right: true})
	if accel != 0 {
		t.Fatalf("idle acceleration = %v, want 0", accel)
	}
	if math.Abs(wheel-(0.9*0.7+0.1)) > 1e-12 {
		t.Fatalf("wheel = %v", wheel)
	}

	wheel, _ = c.Update(Keys{})
	if wheel != 0 {
		t.Fatalf("idle wheel = %v, want 0", wheel)
	}

	c.Acceleration = 3
	c.Reset()
	if c.Wheel != 0 || c.Acceleration != 0 {
		t.Fatal("Reset left commands set")
	}
}

func TestControllerOpposingKeys(t *testing.T) {
	var c Controller
	_, accel := c.Update(Keys{Forward: true, Back: true})
	// Forward pulls to 0.1, then back pulls 0.09 + -0.1.
	if math.Abs(accel-(0.9*0.1-0.1)) > 1e-12 {
		t.Fatalf("opposing keys accel = %v", accel)
	}
}
