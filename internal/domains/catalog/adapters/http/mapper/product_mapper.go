package mapper

import catalogdomain "github.com/DanielPerezVapo/panaderia-api/internal/domains/catalog/domain"

// Product is the transport-layer product shape (Spanish wire names kept
// for the existing storefront client).
type Product struct {
	ID          int64    `json:"id"`
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion,omitempty"`
	Precio      float64  `json:"precio"`
	Cantidad    int32    `json:"cantidad"`
	ImagenURL   string   `json:"imagen_url,omitempty"`
	Alergenos   []string `json:"alergenos,omitempty"`
}

// UpsertRequest is the admin create/update payload. Precio and Cantidad
// are pointers so missing fields can be told apart from zero values.
type UpsertRequest struct {
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion"`
	Precio      *float64 `json:"precio"`
	Cantidad    *int32   `json:"cantidad"`
	ImagenURL   string   `json:"imagen_url"`
	Alergenos   []string `json:"alergenos"`
}

// Complete reports whether the required fields are present.
func (r UpsertRequest) Complete() bool {
	return r.Nombre != "" && r.Precio != nil && r.Cantidad != nil
}

// ToDomainProduct converts an admin payload into the domain model.
func ToDomainProduct(req UpsertRequest) *catalogdomain.Product {
	product := &catalogdomain.Product{
		Name:        req.Nombre,
		Description: req.Descripcion,
		ImageURL:    req.ImagenURL,
		Allergens:   req.Alergenos,
	}
	if req.Precio != nil {
		product.UnitPrice = *req.Precio
	}
	if req.Cantidad != nil {
		product.Quantity = *req.Cantidad
	}
	return product
}

// FromDomainProduct converts a domain product to the transport shape.
func FromDomainProduct(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:          product.ID,
		Nombre:      product.Name,
		Descripcion: product.Description,
		Precio:      product.UnitPrice,
		Cantidad:    product.Quantity,
		ImagenURL:   product.ImageURL,
		Alergenos:   product.Allergens,
	}
}

// FromDomainProducts maps a product listing.
func FromDomainProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, product := range products {
		out = append(out, FromDomainProduct(product))
	}
	return out
}
