package domain

type LineItem struct {
	ID        uint
	OrderID   string
	Name      string
	Quantity  int
	UnitPrice float64
}

func (i LineItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
