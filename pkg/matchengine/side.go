package matchengine

// Side of the book an order belongs to.
type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

func (s Side) String() string {
	return string(s)
}

func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

// ParseSide is the inverse of Side.String. Any input other than the two
// variants fails with ErrInvalidSide.
func ParseSide(s string) (Side, error) {
	switch s {
	case "BUY":
		return BUY, nil
	case "SELL":
		return SELL, nil
	}
	return "", ErrInvalidSide
}
