package models

import (
	"github.com/giftwell/backend/internal/domain/catalog"
	"github.com/giftwell/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// GiftModel is the persistence model for the catalog GiftItem entity.
type GiftModel struct {
	BaseModel
	Name     string          `gorm:"type:varchar(200);not null"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Category string          `gorm:"type:varchar(100);index"`
	ImageURL string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GiftModel) TableName() string {
	return "gifts"
}

// ToDomain converts the persistence model to a domain GiftItem entity.
func (m *GiftModel) ToDomain() *catalog.GiftItem {
	return &catalog.GiftItem{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Price:      valueobject.NewMoneyUSD(m.Price),
		Category:   m.Category,
		ImageURL:   m.ImageURL,
	}
}

// FromDomain populates the persistence model from a domain GiftItem entity.
func (m *GiftModel) FromDomain(g *catalog.GiftItem) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.Name = g.Name
	m.Price = g.Price.Amount()
	m.Category = g.Category
	m.ImageURL = g.ImageURL
}

// GiftModelFromDomain creates a persistence model from a domain GiftItem.
func GiftModelFromDomain(g *catalog.GiftItem) *GiftModel {
	m := &GiftModel{}
	m.FromDomain(g)
	return m
}
