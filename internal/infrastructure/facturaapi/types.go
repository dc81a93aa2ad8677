package facturaapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/margin-sync/internal/domain/entity"
)

// apiDate fecha "YYYY-MM-DD" como la entrega el API.
type apiDate struct {
	time.Time
}

func (d *apiDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("fecha %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Payloads del API. Los montos llegan como strings numéricos; el codec de
// shopspring/decimal acepta ambas formas.

type productPayload struct {
	ID         int64           `json:"id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	PriceNet   decimal.Decimal `json:"price_net"`
	PriceGross decimal.Decimal `json:"price_gross"`
	Currency   string          `json:"currency"`
	UpdatedAt  apiDate         `json:"updated_at"`
}

type stockActionPayload struct {
	ID                 int64           `json:"id"`
	ProductID          int64           `json:"product_id"`
	ProductName        string          `json:"product_name"`
	Quantity           decimal.Decimal `json:"quantity"`
	PurchaseCurrency   string          `json:"purchase_currency"`
	ExchangeRate       decimal.Decimal `json:"exchange_rate"`
	TotalPurchaseNet   decimal.Decimal `json:"total_purchase_price_net"`
	TotalPurchaseGross decimal.Decimal `json:"total_purchase_price_gross"`
}

type stockDocumentPayload struct {
	ID          int64                `json:"id"`
	Kind        string               `json:"type"`
	Number      string               `json:"number"`
	Date        apiDate              `json:"date"`
	WarehouseID int64                `json:"warehouse_id"`
	Actions     []stockActionPayload `json:"actions"`
}

type salePositionPayload struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	TotalPriceNet   decimal.Decimal `json:"total_price_net"`
	TotalPriceGross decimal.Decimal `json:"total_price_gross"`
}

type saleDocumentPayload struct {
	ID        int64                 `json:"id"`
	Kind      string                `json:"kind"`
	Number    string                `json:"number"`
	Date      apiDate               `json:"date"`
	Positions []salePositionPayload `json:"positions"`
}

// Transformadores payload → entidad. La construcción falla aquí mismo si
// faltan identificadores requeridos, no después en el acceso a campos.

func (p *productPayload) toEntity() (*entity.CatalogProduct, error) {
	prod := &entity.CatalogProduct{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		PriceNet:   p.PriceNet,
		PriceGross: p.PriceGross,
		Currency:   p.Currency,
		UpdatedAt:  p.UpdatedAt.Time,
	}
	if err := prod.Validate(); err != nil {
		return nil, fmt.Errorf("producto %d: %w", p.ID, err)
	}
	return prod, nil
}

func (p *stockDocumentPayload) toEntity() (*entity.StockDocument, error) {
	doc := &entity.StockDocument{
		ID:          p.ID,
		Kind:        p.Kind,
		Number:      p.Number,
		Date:        p.Date.Time,
		WarehouseID: p.WarehouseID,
	}
	for _, a := range p.Actions {
		doc.Actions = append(doc.Actions, entity.StockAction{
			ID:                 a.ID,
			ProductID:          a.ProductID,
			ProductName:        a.ProductName,
			Quantity:           a.Quantity,
			PurchaseCurrency:   a.PurchaseCurrency,
			ExchangeRate:       a.ExchangeRate,
			TotalPurchaseNet:   a.TotalPurchaseNet,
			TotalPurchaseGross: a.TotalPurchaseGross,
		})
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("documento de almacén %d: %w", p.ID, err)
	}
	return doc, nil
}

func (p *saleDocumentPayload) toEntity() (*entity.SaleDocument, error) {
	doc := &entity.SaleDocument{
		ID:     p.ID,
		Kind:   p.Kind,
		Number: p.Number,
		Date:   p.Date.Time,
	}
	for _, pos := range p.Positions {
		doc.Positions = append(doc.Positions, entity.SalePosition{
			ID:              pos.ID,
			ProductID:       pos.ProductID,
			ProductName:     pos.ProductName,
			Quantity:        pos.Quantity,
			TotalPriceNet:   pos.TotalPriceNet,
			TotalPriceGross: pos.TotalPriceGross,
		})
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("documento de venta %d: %w", p.ID, err)
	}
	return doc, nil
}
