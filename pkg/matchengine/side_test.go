package matchengine

import "testing"

func TestSideRoundTrip(t *testing.T) {
	for _, side := range []Side{BUY, SELL} {
		parsed, err := ParseSide(side.String())
		if err != nil {
			t.Fatalf("ParseSide(%q) err=%v", side, err)
		}
		if parsed != side {
			t.Errorf("round trip %q -> %q", side, parsed)
		}
	}
}

func TestParseSideInvalid(t *testing.T) {
	for _, in := range []string{"", "buy", "B", "HOLD"} {
		if _, err := ParseSide(in); err != ErrInvalidSide {
			t.Errorf("ParseSide(%q) err=%v, want ErrInvalidSide", in, err)
		}
	}
}

func TestSideOpposite(t *testing.T) {
	if BUY.Opposite() != SELL || SELL.Opposite() != BUY {
		t.Fatalf("opposite sides wrong")
	}
}
