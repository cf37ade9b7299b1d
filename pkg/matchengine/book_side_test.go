package matchengine

import "testing"

func TestBookSideBestLevelBuy(t *testing.T) {
	side := newBookSide(BUY)
	for _, price := range []int64{100_000, 103_000, 101_000} {
		side.getOrCreateLevel(price).append(newRestingOrder(price, price, 10, BUY))
	}

	best, ok := side.bestLevel()
	if !ok || best.Price != 103_000 {
		t.Fatalf("BUY best = %+v, want price 103000", best)
	}
}

func TestBookSideBestLevelSell(t *testing.T) {
	side := newBookSide(SELL)
	for _, price := range []int64{103_000, 100_000, 101_000} {
		side.getOrCreateLevel(price).append(newRestingOrder(price, price, 10, SELL))
	}

	best, ok := side.bestLevel()
	if !ok || best.Price != 100_000 {
		t.Fatalf("SELL best = %+v, want price 100000", best)
	}
}

func TestBookSideGetOrCreateIsIdempotent(t *testing.T) {
	side := newBookSide(BUY)
	a := side.getOrCreateLevel(100_000)
	b := side.getOrCreateLevel(100_000)
	if a != b {
		t.Fatalf("expected same level instance")
	}
}

func TestBookSideRemoveOrderDropsEmptyLevel(t *testing.T) {
	side := newBookSide(BUY)
	side.getOrCreateLevel(100_000).append(newRestingOrder(1, 100_000, 10, BUY))

	if _, ok := side.removeOrder(1, 100_000); !ok {
		t.Fatalf("expected remove success")
	}
	if _, ok := side.levelAt(100_000); ok {
		t.Errorf("empty level should not persist")
	}
	if _, ok := side.bestLevel(); ok {
		t.Errorf("bestLevel should report empty book side")
	}
}

func TestBookSideDepthBestFirst(t *testing.T) {
	side := newBookSide(SELL)
	for _, price := range []int64{102_000, 100_000, 101_000} {
		level := side.getOrCreateLevel(price)
		level.append(newRestingOrder(price, price, 10, SELL))
		level.append(newRestingOrder(price+1, price, 5, SELL))
	}

	depth := side.depth(2)
	if len(depth) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(depth))
	}
	if depth[0].Price != 100_000 || depth[1].Price != 101_000 {
		t.Errorf("depth not best-first: %+v", depth)
	}
	if depth[0].Qty != 15 || depth[0].Orders != 2 {
		t.Errorf("aggregates wrong: %+v", depth[0])
	}
}
