package sim

import (
	"math"
	"testing"

	"github.com/pthm-cable/fireworks/palette"
)

func TestPoolAddPolarVelocity(t *testing.T) {
	p := NewPool(PopStars)

	// Angle 0 points down the screen, pi points up
	down := p.Add(10, 20, palette.Red, 0, 2, 100)
	if math.Abs(down.SpeedX) > 1e-9 || math.Abs(down.SpeedY-2) > 1e-9 {
		t.Errorf("expected velocity (0, 2), got (%f, %f)", down.SpeedX, down.SpeedY)
	}
	up := p.Add(10, 20, palette.Red, math.Pi, 2, 100)
	if math.Abs(up.SpeedY+2) > 1e-9 {
		t.Errorf("expected upward speed -2, got %f", up.SpeedY)
	}

	off := p.AddWithOffset(0, 0, palette.Blue, math.Pi/2, 1, 100, 0.5, -0.5)
	if math.Abs(off.SpeedX-1.5) > 1e-9 || math.Abs(off.SpeedY+0.5) > 1e-9 {
		t.Errorf("expected velocity (1.5, -0.5), got (%f, %f)", off.SpeedX, off.SpeedY)
	}

	if down.PrevX != 10 || down.PrevY != 20 {
		t.Errorf("expected prev position = spawn position, got (%f, %f)", down.PrevX, down.PrevY)
	}
	if down.FullLife != 100 || down.Life != 100 {
		t.Errorf("expected life 100/100, got %f/%f", down.Life, down.FullLife)
	}
}

func TestPoolBucketsByColor(t *testing.T) {
	p := NewPool(PopSparks)
	p.Add(0, 0, palette.Red, 0, 1, 10)
	p.Add(0, 0, palette.Red, 0, 1, 10)
	p.Add(0, 0, palette.Gold, 0, 1, 10)

	if n := len(p.Bucket(palette.Red)); n != 2 {
		t.Errorf("expected 2 red, got %d", n)
	}
	if n := len(p.Bucket(palette.Gold)); n != 1 {
		t.Errorf("expected 1 gold, got %d", n)
	}
	if p.Len() != 3 {
		t.Errorf("expected 3 active, got %d", p.Len())
	}

	seen := 0
	p.Each(func(*Particle) { seen++ })
	if seen != 3 {
		t.Errorf("expected Each to visit 3, got %d", seen)
	}
}

func TestPoolReusesRecords(t *testing.T) {
	p := NewPool(PopStars)

	parts := make([]*Particle, 0, 50)
	for i := 0; i < 50; i++ {
		parts = append(parts, p.Add(0, 0, palette.Color(i%palette.Count), 0, 1, 10))
	}
	for _, pt := range parts {
		p.Retire(pt)
	}
	if p.Len() != 0 || p.FreeLen() != 50 {
		t.Errorf("expected 0 active / 50 free, got %d / %d", p.Len(), p.FreeLen())
	}

	for i := 0; i < 50; i++ {
		p.Add(0, 0, palette.White, 0, 1, 10)
	}
	if p.Allocated() != 50 {
		t.Errorf("expected no new allocations, allocated=%d", p.Allocated())
	}
	if p.FreeLen() != 0 {
		t.Errorf("expected free-list drained, got %d", p.FreeLen())
	}
}

func TestPoolRecycleClearsDeathEvent(t *testing.T) {
	p := NewPool(PopStars)
	s := &Shell{}

	pt := p.Add(0, 0, palette.Red, 0, 1, 10)
	pt.Death = DeathEvent{Kind: DeathBurst, Shell: s}
	pt.Heavy = true
	pt.SparkFreq = 5

	ev := p.Retire(pt)
	if ev.Kind != DeathBurst || ev.Shell != s {
		t.Errorf("expected burst event returned, got %+v", ev)
	}
	if pt.Active() {
		t.Error("retired record should be inactive")
	}

	reused := p.Add(0, 0, palette.Blue, 0, 1, 10)
	if reused != pt {
		t.Fatal("expected the retired record to be reused")
	}
	if reused.Death.Kind != DeathNone || reused.Heavy || reused.SparkFreq != 0 {
		t.Errorf("reused record carries stale state: %+v", reused)
	}
	if reused.SparkColor != palette.Blue {
		t.Errorf("expected spark colour to default to particle colour, got %s", reused.SparkColor)
	}
}

func TestPoolRetirePreservesOrder(t *testing.T) {
	p := NewPool(PopSparks)
	a := p.Add(1, 0, palette.Red, 0, 1, 10)
	b := p.Add(2, 0, palette.Red, 0, 1, 10)
	c := p.Add(3, 0, palette.Red, 0, 1, 10)

	p.Retire(b)
	bucket := p.Bucket(palette.Red)
	if len(bucket) != 2 || bucket[0] != a || bucket[1] != c {
		t.Errorf("expected [a c] after removing b, got %v", bucket)
	}
}

// retireCatching retires pt and reports whether the pool panicked.
func retireCatching(p *Pool, pt *Particle) (ev DeathEvent, panicked bool) {
	defer func() {
		if recover() != nil {
			panicked = true
		}
	}()
	return p.Retire(pt), false
}

func TestPoolDoubleRetire(t *testing.T) {
	p := NewPool(PopStars)
	pt := p.Add(0, 0, palette.Red, 0, 1, 10)
	p.Add(0, 0, palette.Red, 0, 1, 10)

	if _, panicked := retireCatching(p, pt); panicked {
		t.Fatal("first retire must not panic")
	}
	ev, panicked := retireCatching(p, pt)
	if panicked != strictPool {
		t.Errorf("double retire: expected panic=%v, got %v", strictPool, panicked)
	}
	if ev.Kind != DeathNone {
		t.Errorf("expected empty event on double retire, got %+v", ev)
	}
	if p.Len() != 1 || p.FreeLen() != 1 {
		t.Errorf("double retire changed pool: active=%d free=%d", p.Len(), p.FreeLen())
	}

	// Foreign population
	sparks := NewPool(PopSparks)
	other := sparks.Add(0, 0, palette.Red, 0, 1, 10)
	if _, panicked := retireCatching(p, other); panicked != strictPool {
		t.Errorf("foreign retire: expected panic=%v, got %v", strictPool, panicked)
	}
	if !other.Active() || sparks.Len() != 1 {
		t.Error("retiring through the wrong pool must be a no-op")
	}
}

func TestPoolClear(t *testing.T) {
	p := NewPool(PopStars)
	for i := 0; i < 10; i++ {
		p.Add(0, 0, palette.Color(i%3), 0, 1, 10)
	}
	p.Clear()
	if p.Len() != 0 {
		t.Errorf("expected empty pool, got %d", p.Len())
	}
	for c := 0; c < palette.Count; c++ {
		if len(p.Bucket(palette.Color(c))) != 0 {
			t.Errorf("bucket %d not cleared", c)
		}
	}
	if p.FreeLen() != 10 {
		t.Errorf("expected 10 free records, got %d", p.FreeLen())
	}
}
