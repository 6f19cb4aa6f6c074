package mapper

import ordersdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/orders/domain"

// CartRequest is the storefront's order submission payload.
type CartRequest struct {
	Productos []CartItem `json:"productos"`
}

// CartItem is one requested product as the web client sends it. Name
// and price are the client's snapshot at request time.
type CartItem struct {
	ID       int64   `json:"id"`
	Nombre   string  `json:"nombre"`
	Precio   float64 `json:"precio"`
	Cantidad int32   `json:"cantidad"`
}

// ToDomainCart converts the wire payload into cart lines.
func ToDomainCart(req CartRequest) []ordersdomain.CartLine {
	lines := make([]ordersdomain.CartLine, 0, len(req.Productos))
	for _, item := range req.Productos {
		lines = append(lines, ordersdomain.CartLine{
			ProductID: item.ID,
			Name:      item.Nombre,
			UnitPrice: item.Precio,
			Quantity:  item.Cantidad,
		})
	}
	return lines
}
