package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	BrandID      int64     `json:"brand_id" db:"brand_id"`
	CategoryID   int64     `json:"category_id" db:"category_id"`
	Stock        int       `json:"stock" db:"stock"`
	TotalRatings float64   `json:"total_ratings" db:"total_ratings"`
	TotalSold    int       `json:"total_sold" db:"total_sold"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type ProductImage struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Attribute est partagé entre produits via ProductAttributeValue.
type Attribute struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type ProductAttributeValue struct {
	ID          int64  `json:"id" db:"id"`
	ProductID   int64  `json:"product_id" db:"product_id"`
	AttributeID int64  `json:"attribute_id" db:"attribute_id"`
	Value       string `json:"value" db:"value"`
}

// AttributeEntry est la forme exposée d'un attribut de produit : {name, value}.
type AttributeEntry struct {
	Name  string `json:"name" db:"name"`
	Value string `json:"value" db:"value"`
}

// Variant est une dimension de produit (Couleur, Taille...).
type Variant struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type VariantValue struct {
	ID        int64   `json:"id" db:"id"`
	VariantID int64   `json:"variant_id" db:"variant_id"`
	Value     string  `json:"value" db:"value"`
	Image     *string `json:"image,omitempty" db:"image"`
}

// ProductVariantValue est un SKU achetable : une combinaison de VariantValues
// avec son prix et son stock.
type ProductVariantValue struct {
	ID        int64               `json:"id" db:"id"`
	ProductID int64               `json:"product_id" db:"product_id"`
	Price     decimal.Decimal     `json:"price" db:"price"`
	OldPrice  decimal.NullDecimal `json:"old_price" db:"old_price"`
	Stock     int                 `json:"stock" db:"stock"`
	SKU       string              `json:"sku" db:"sku"`

	// Name est le libellé d'affichage ("Red L"), reconstruit depuis les options.
	Name string `json:"name" db:"-"`
}

// ProductDetail est la vue complète d'un produit renvoyée par l'API.
type ProductDetail struct {
	Product
	Category             *Category             `json:"category,omitempty"`
	Brand                *Brand                `json:"brand,omitempty"`
	Images               []ProductImage        `json:"images"`
	Attributes           []AttributeEntry      `json:"attributes"`
	ProductVariantValues []ProductVariantValue `json:"product_variant_values"`
}
